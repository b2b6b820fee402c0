package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

type namedAction string

func (a namedAction) Name() string { return string(a) }

type fakeSpec struct {
	name string
}

type fakeState struct{}

type fakeKind struct {
	current  *fakeState
	fetchErr error
	decision Decision
	failOn   string
	fetches  int
	executed []string
	execErr  error
	wantView any
	haveView any
}

func (k *fakeKind) Identity(d fakeSpec) Identity {
	return Identity{Kind: "fake", Name: d.name, Vserver: "svm1"}
}

func (k *fakeKind) Fetch(context.Context, fakeSpec) (*fakeState, error) {
	k.fetches++
	return k.current, k.fetchErr
}

func (k *fakeKind) Decide(fakeSpec, *fakeState) Decision {
	return k.decision
}

func (k *fakeKind) Execute(_ context.Context, _ fakeSpec, a Action) error {
	k.executed = append(k.executed, a.Name())
	if a.Name() == k.failOn {
		return k.execErr
	}
	return nil
}

func (k *fakeKind) Preview(fakeSpec, *fakeState) (any, any) {
	return k.wantView, k.haveView
}

func newFake(t *testing.T, kind *fakeKind) *Reconciler[fakeSpec, fakeState] {
	t.Helper()
	r, err := New[fakeSpec, fakeState](kind, nil)
	require.NoError(t, err)
	return r
}

func TestNewRejectsNilKind(t *testing.T) {
	t.Parallel()

	_, err := New[fakeSpec, fakeState](nil, nil)
	require.ErrorIs(t, err, &cdoterrors.ConfigurationError{})
}

func TestRunNoChange(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{decision: NoChange()}
	outcome, err := newFake(t, kind).Run(context.Background(), fakeSpec{name: "r1"}, false)

	require.NoError(t, err)
	require.False(t, outcome.Changed)
	require.Empty(t, outcome.Actions)
	require.Empty(t, kind.executed)
	require.Equal(t, "fake", outcome.Kind)
	require.Equal(t, "r1", outcome.Resource)
	require.Equal(t, "svm1", outcome.Vserver)
}

func TestRunExecutesInOrder(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{decision: Change(namedAction("unmount"), namedAction("mount /new"))}
	outcome, err := newFake(t, kind).Run(context.Background(), fakeSpec{name: "r1"}, false)

	require.NoError(t, err)
	require.True(t, outcome.Changed)
	require.Equal(t, []string{"unmount", "mount /new"}, kind.executed)
	require.Equal(t, []string{"unmount", "mount /new"}, outcome.Actions)
	require.Equal(t, 1, kind.fetches)
	require.Empty(t, outcome.Diff)
}

func TestRunDryRunNeverExecutes(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{
		decision: Change(namedAction("create")),
		wantView: map[string]string{"state": "present"},
		haveView: map[string]string{"state": "absent"},
	}
	outcome, err := newFake(t, kind).Run(context.Background(), fakeSpec{name: "r1"}, true)

	require.NoError(t, err)
	require.True(t, outcome.Changed)
	require.True(t, outcome.DryRun)
	require.Equal(t, []string{"create"}, outcome.Actions)
	require.Empty(t, kind.executed)
	require.Contains(t, outcome.Diff, "-state: absent")
	require.Contains(t, outcome.Diff, "+state: present")
}

func TestRunDryRunMatchesRealRun(t *testing.T) {
	t.Parallel()

	decisions := []Decision{NoChange(), Change(namedAction("a")), Change(namedAction("a"), namedAction("b"))}
	for _, d := range decisions {
		dry, err := newFake(t, &fakeKind{decision: d}).Run(context.Background(), fakeSpec{name: "r"}, true)
		require.NoError(t, err)
		applied, err := newFake(t, &fakeKind{decision: d}).Run(context.Background(), fakeSpec{name: "r"}, false)
		require.NoError(t, err)
		require.Equal(t, dry.Changed, applied.Changed)
		require.Equal(t, dry.Actions, applied.Actions)
	}
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("junction busy")
	kind := &fakeKind{
		decision: Change(namedAction("unmount"), namedAction("mount /new"), namedAction("never")),
		failOn:   "mount /new",
		execErr:  boom,
	}
	outcome, err := newFake(t, kind).Run(context.Background(), fakeSpec{name: "r1"}, false)

	require.ErrorIs(t, err, boom)
	var actionErr *cdoterrors.ActionError
	require.ErrorAs(t, err, &actionErr)
	require.Equal(t, "mount /new", actionErr.Action)
	require.Equal(t, "r1", actionErr.Resource)

	require.Equal(t, []string{"unmount", "mount /new"}, kind.executed)
	require.Equal(t, []string{"unmount"}, outcome.Actions)
	require.True(t, outcome.Changed, "the unmount was applied")
	require.True(t, outcome.Failed())
	require.Contains(t, outcome.Failure.Message, "junction busy")
}

func TestEvaluateWrapsFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	kind := &fakeKind{fetchErr: boom, decision: Change(namedAction("x"))}
	outcome, err := newFake(t, kind).Run(context.Background(), fakeSpec{name: "r1"}, false)

	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, &cdoterrors.FetchError{})
	require.False(t, outcome.Changed)
	require.Empty(t, kind.executed)
	require.True(t, outcome.Failed())
}

func TestEvaluateKeepsExistingFetchError(t *testing.T) {
	t.Parallel()

	original := cdoterrors.NewFetchError("r1", "svm1", errors.New("malformed"))
	kind := &fakeKind{fetchErr: original}
	_, err := newFake(t, kind).Evaluate(context.Background(), fakeSpec{name: "r1"})

	require.Same(t, original, err)
}

func TestApplyNilEvaluation(t *testing.T) {
	t.Parallel()

	_, err := newFake(t, &fakeKind{}).Apply(context.Background(), nil)
	require.Error(t, err)
}

func TestRunPartialActionCountsAsChanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("volume busy")
	kind := &fakeKind{
		decision: Change(namedAction("destroy")),
		failOn:   "destroy",
		execErr:  Partial(boom),
	}
	outcome, err := newFake(t, kind).Run(context.Background(), fakeSpec{name: "r1"}, false)

	require.ErrorIs(t, err, boom)
	require.Empty(t, outcome.Actions)
	require.True(t, outcome.Changed)
	require.Equal(t, "destroy", outcome.Partial)
	require.True(t, outcome.Failed())
}

func TestRunPlainFailureIsNotPartial(t *testing.T) {
	t.Parallel()

	kind := &fakeKind{
		decision: Change(namedAction("destroy")),
		failOn:   "destroy",
		execErr:  errors.New("volume busy"),
	}
	outcome, err := newFake(t, kind).Run(context.Background(), fakeSpec{name: "r1"}, false)

	require.Error(t, err)
	require.False(t, outcome.Changed)
	require.Empty(t, outcome.Partial)
	require.Nil(t, Partial(nil))
}
