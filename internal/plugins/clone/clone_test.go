package clone

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/plugin"
	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi/zapifake"
	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

func boolPtr(b bool) *bool { return &b }

func present(name string) config.Resource {
	return config.Resource{
		Kind:         config.KindClone,
		Name:         name,
		Vserver:      "svm1",
		State:        config.StatePresent,
		ParentVolume: "parent",
	}
}

func absent(name string) config.Resource {
	return config.Resource{Kind: config.KindClone, Name: name, Vserver: "svm1", State: config.StateAbsent}
}

func TestSpecFrom(t *testing.T) {
	t.Parallel()

	spec, err := SpecFrom(present("c1"))
	require.NoError(t, err)
	require.Equal(t, Spec{Name: "c1", ParentVolume: "parent", Vserver: "svm1", Present: true, Online: true}, spec)

	res := present("c1")
	res.Online = boolPtr(false)
	res.SnapshotName = "daily.0"
	spec, err = SpecFrom(res)
	require.NoError(t, err)
	require.False(t, spec.Online)
	require.Equal(t, "daily.0", spec.SnapshotName)

	spec, err = SpecFrom(absent("c1"))
	require.NoError(t, err)
	require.False(t, spec.Present)

	cases := map[string]func(r *config.Resource){
		"resource.parent_volume": func(r *config.Resource) { r.ParentVolume = "" },
		"resource.name":          func(r *config.Resource) { r.Name = "" },
		"resource.vserver":       func(r *config.Resource) { r.Vserver = "" },
		"resource.state":         func(r *config.Resource) { r.State = config.StateMounted },
		"resource.kind":          func(r *config.Resource) { r.Kind = config.KindMount },
	}
	for field, mutate := range cases {
		res := present("c1")
		mutate(&res)
		_, err := SpecFrom(res)
		var cfgErr *cdoterrors.ConfigurationError
		require.ErrorAs(t, err, &cfgErr, field)
		require.Equal(t, field, cfgErr.Field)
	}
}

func TestDecide(t *testing.T) {
	t.Parallel()

	want := Spec{Name: "V1", ParentVolume: "P", Vserver: "svm1", Present: true, Online: true}
	gone := Spec{Name: "V1", Vserver: "svm1"}

	tests := []struct {
		name    string
		spec    Spec
		current *Snapshot
		want    reconcile.Decision
	}{
		{"absent to present creates", want, nil, reconcile.Change(Create{Volume: "V1", Parent: "P"})},
		{"absent stays absent", gone, nil, reconcile.NoChange()},
		{"offline brought online", want, &Snapshot{Name: "V1", Online: model.False}, reconcile.Change(SetOnlineState{Volume: "V1", Online: true})},
		{"online matches", want, &Snapshot{Name: "V1", Online: model.True}, reconcile.NoChange()},
		{"unknown state is left alone", want, &Snapshot{Name: "V1", Online: model.Unknown}, reconcile.NoChange()},
		{"online clone destroyed", gone, &Snapshot{Name: "V1", Online: model.True}, reconcile.Change(Destroy{Volume: "V1", TakeOffline: true})},
		{"unknown clone destroyed via offline", gone, &Snapshot{Name: "V1"}, reconcile.Change(Destroy{Volume: "V1", TakeOffline: true})},
		{"offline clone destroyed directly", gone, &Snapshot{Name: "V1", Online: model.False}, reconcile.Change(Destroy{Volume: "V1"})},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Decide(tt.spec, tt.current))
		})
	}
}

func TestDecideUnknownNeverSetsState(t *testing.T) {
	t.Parallel()

	for _, online := range []bool{true, false} {
		d := Decide(Spec{Name: "V1", ParentVolume: "P", Present: true, Online: online}, &Snapshot{Online: model.Unknown})
		require.False(t, d.Changed)
		require.Empty(t, d.Actions)
	}
}

func TestCreateParams(t *testing.T) {
	t.Parallel()

	params := Create{Volume: "c1", Parent: "p"}.Params()
	require.Equal(t, zapi.Params{"volume": "c1", "parent-volume": "p"}, params)
	_, ok := params["parent-snapshot"]
	require.False(t, ok)

	params = Create{Volume: "c1", Parent: "p", Snapshot: "snap1"}.Params()
	require.Equal(t, "snap1", params["parent-snapshot"])
}

func TestFetchNormalizesState(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	srv.AddVolume(zapifake.Volume{Name: "c1", SizeBytes: 2048, State: "offline"})
	srv.AddVolume(zapifake.Volume{Name: "c2", State: "restricted"})

	kind, err := NewKind(srv)
	require.NoError(t, err)

	snap, err := kind.Fetch(context.Background(), Spec{Name: "c1", Vserver: "svm1"})
	require.NoError(t, err)
	require.Equal(t, &Snapshot{Name: "c1", SizeBytes: 2048, Online: model.False}, snap)

	snap, err = kind.Fetch(context.Background(), Spec{Name: "c2", Vserver: "svm1"})
	require.NoError(t, err)
	require.Equal(t, model.Unknown, snap.Online)

	snap, err = kind.Fetch(context.Background(), Spec{Name: "missing", Vserver: "svm1"})
	require.NoError(t, err)
	require.Nil(t, snap)

	for _, q := range srv.Queries() {
		require.Equal(t, zapi.Direct, q.Routing)
	}
}

type recordClient struct {
	zapi.Client
	records []*zapi.Element
}

func (c recordClient) Query(context.Context, zapi.Query) ([]*zapi.Element, error) {
	return c.records, nil
}

func TestFetchRejectsRecordWithoutIdentity(t *testing.T) {
	t.Parallel()

	records := map[string]*zapi.Element{
		"no id attributes": zapi.NewElement("volume-attributes").
			AddChild(zapi.NewElement("volume-state-attributes").AddNewChild("state", "online")),
		"no name": zapi.NewElement("volume-attributes").
			AddChild(zapi.NewElement("volume-id-attributes").AddNewChild("owning-vserver-name", "svm1")),
	}
	for name, record := range records {
		kind, err := NewKind(recordClient{records: []*zapi.Element{record}})
		require.NoError(t, err)

		_, err = kind.Fetch(context.Background(), Spec{Name: "c1", Vserver: "svm1"})
		require.ErrorIs(t, err, &cdoterrors.FetchError{}, name)
	}
}

func TestNewKindRequiresClient(t *testing.T) {
	t.Parallel()

	_, err := NewKind(nil)
	require.ErrorIs(t, err, &cdoterrors.ConfigurationError{})
}

func TestReconcileLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := zapifake.New("svm1")
	srv.AddVolume(zapifake.Volume{Name: "parent", SizeBytes: 4096})
	p := New()

	outcome, err := p.Reconcile(ctx, srv, present("c1"), plugin.RunOptions{})
	require.NoError(t, err)
	require.True(t, outcome.Changed)
	require.Equal(t, []string{"create"}, outcome.Actions)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, zapi.Direct, calls[0].Routing)
	require.Equal(t, zapi.Params{"volume": "c1", "parent-volume": "parent"}, calls[0].Params)

	outcome, err = p.Reconcile(ctx, srv, present("c1"), plugin.RunOptions{})
	require.NoError(t, err)
	require.False(t, outcome.Changed, "second run converged")

	offline := present("c1")
	offline.Online = boolPtr(false)
	outcome, err = p.Reconcile(ctx, srv, offline, plugin.RunOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"offline"}, outcome.Actions)
	v, _ := srv.Volume("c1")
	require.Equal(t, "offline", v.State)

	outcome, err = p.Reconcile(ctx, srv, absent("c1"), plugin.RunOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"destroy"}, outcome.Actions)
	_, ok := srv.Volume("c1")
	require.False(t, ok)

	outcome, err = p.Reconcile(ctx, srv, absent("c1"), plugin.RunOptions{})
	require.NoError(t, err)
	require.False(t, outcome.Changed)

	require.Equal(t, []string{"volume-clone-create", "volume-offline", "volume-destroy"}, srv.Ops())
}

func TestReconcileDestroyOnlineClone(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	srv.AddVolume(zapifake.Volume{Name: "c1"})

	outcome, err := New().Reconcile(context.Background(), srv, absent("c1"), plugin.RunOptions{})
	require.NoError(t, err)
	require.True(t, outcome.Changed)
	require.Equal(t, []string{"volume-offline", "volume-destroy"}, srv.Ops())
	for _, c := range srv.Calls() {
		require.Equal(t, zapi.Tunneled, c.Routing)
	}
}

func TestReconcileDryRun(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	srv.AddVolume(zapifake.Volume{Name: "parent"})

	outcome, err := New().Reconcile(context.Background(), srv, present("c1"), plugin.RunOptions{DryRun: true})
	require.NoError(t, err)
	require.True(t, outcome.Changed)
	require.True(t, outcome.DryRun)
	require.Equal(t, []string{"create"}, outcome.Actions)
	require.Contains(t, outcome.Diff, "+state: present")
	require.Empty(t, srv.Calls())
}

func TestReconcileActionFailure(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	srv.AddVolume(zapifake.Volume{Name: "parent"})
	boom := errors.New("aggregate full")
	srv.FailOn("volume-clone-create", boom)

	outcome, err := New().Reconcile(context.Background(), srv, present("c1"), plugin.RunOptions{})
	require.ErrorIs(t, err, boom)

	var actionErr *cdoterrors.ActionError
	require.ErrorAs(t, err, &actionErr)
	require.Equal(t, "create", actionErr.Action)
	require.Equal(t, "c1", actionErr.Resource)
	require.Contains(t, err.Error(), "clone parent to c1")

	require.True(t, outcome.Failed())
	require.False(t, outcome.Changed)
}

func TestReconcileFetchFailure(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	srv.FailOn("volume-get-iter", errors.New("connection refused"))

	_, err := New().Reconcile(context.Background(), srv, present("c1"), plugin.RunOptions{})
	require.ErrorIs(t, err, &cdoterrors.FetchError{})
	require.Empty(t, srv.Calls())
}

func TestReconcileConfigurationErrorSkipsClient(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	res := present("c1")
	res.ParentVolume = ""

	outcome, err := New().Reconcile(context.Background(), srv, res, plugin.RunOptions{})
	require.Nil(t, outcome)
	require.ErrorIs(t, err, &cdoterrors.ConfigurationError{})
	require.Empty(t, srv.Queries())
}

func TestReconcileDestroyFailureAfterOffline(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	srv.AddVolume(zapifake.Volume{Name: "c1"})
	boom := errors.New("volume busy")
	srv.FailOn("volume-destroy", boom)

	outcome, err := New().Reconcile(context.Background(), srv, absent("c1"), plugin.RunOptions{})
	require.ErrorIs(t, err, boom)
	require.ErrorAs(t, err, new(*reconcile.PartialError))

	require.True(t, outcome.Changed, "the clone was taken offline")
	require.Equal(t, "destroy", outcome.Partial)
	require.Contains(t, outcome.Failure.Message, "taken offline")
	require.Equal(t, []string{"volume-offline", "volume-destroy"}, srv.Ops())

	v, ok := srv.Volume("c1")
	require.True(t, ok)
	require.Equal(t, "offline", v.State)
}

func TestReconcileDestroyFailureOnOfflineCloneIsNotPartial(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	srv.AddVolume(zapifake.Volume{Name: "c1", State: "offline"})
	srv.FailOn("volume-destroy", errors.New("volume busy"))

	outcome, err := New().Reconcile(context.Background(), srv, absent("c1"), plugin.RunOptions{})
	require.Error(t, err)
	require.False(t, outcome.Changed)
	require.Empty(t, outcome.Partial)
	require.Equal(t, []string{"volume-destroy"}, srv.Ops())
}

func TestReconcileDryRunShowsUnknownOnlineState(t *testing.T) {
	t.Parallel()

	srv := zapifake.New("svm1")
	srv.AddVolume(zapifake.Volume{Name: "c1", State: "restricted"})

	outcome, err := New().Reconcile(context.Background(), srv, absent("c1"), plugin.RunOptions{DryRun: true})
	require.NoError(t, err)
	require.Contains(t, outcome.Diff, "-online: unknown")
	require.Contains(t, outcome.Diff, "+state: absent")
}
