package clone

import (
	"context"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

// Kind is the reconcile.Kind for clones.
type Kind struct {
	client zapi.Client
}

var _ reconcile.Kind[Spec, Snapshot] = (*Kind)(nil)

// NewKind binds the clone strategy to a control-plane client.
func NewKind(client zapi.Client) (*Kind, error) {
	if client == nil {
		return nil, cdoterrors.NewConfigurationError("client", "no storage control-plane client configured", nil)
	}
	return &Kind{client: client}, nil
}

// Identity implements reconcile.Kind.
func (k *Kind) Identity(spec Spec) reconcile.Identity {
	return reconcile.Identity{Kind: config.KindClone, Name: spec.Name, Vserver: spec.Vserver}
}

// Fetch implements reconcile.Kind.
func (k *Kind) Fetch(ctx context.Context, spec Spec) (*Snapshot, error) {
	return fetch(ctx, k.client, spec)
}

// Decide implements reconcile.Kind.
func (k *Kind) Decide(spec Spec, current *Snapshot) reconcile.Decision {
	return Decide(spec, current)
}

// Execute implements reconcile.Kind.
func (k *Kind) Execute(ctx context.Context, _ Spec, action reconcile.Action) error {
	return execute(ctx, k.client, action)
}

type view struct {
	State        string          `yaml:"state"`
	ParentVolume string          `yaml:"parent_volume,omitempty"`
	SnapshotName string          `yaml:"snapshot_name,omitempty"`
	Online       *model.Tristate `yaml:"online,omitempty"`
	SizeBytes    int64           `yaml:"size_bytes,omitempty"`
}

// Preview implements reconcile.Kind. An existing clone always shows its
// online state, unknown included.
func (k *Kind) Preview(spec Spec, current *Snapshot) (any, any) {
	want := view{State: config.StateAbsent}
	if spec.Present {
		online := model.TristateOf(spec.Online)
		want = view{
			State:        config.StatePresent,
			ParentVolume: spec.ParentVolume,
			SnapshotName: spec.SnapshotName,
			Online:       &online,
		}
	}

	have := view{State: config.StateAbsent}
	if current != nil {
		online := current.Online
		have = view{State: config.StatePresent, Online: &online, SizeBytes: current.SizeBytes}
	}
	return want, have
}
