package mount

import (
	"context"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

// Kind is the reconcile.Kind for junction bindings.
type Kind struct {
	client zapi.Client
}

var _ reconcile.Kind[Spec, Snapshot] = (*Kind)(nil)

// NewKind binds the mount strategy to a control-plane client.
func NewKind(client zapi.Client) (*Kind, error) {
	if client == nil {
		return nil, cdoterrors.NewConfigurationError("client", "no storage control-plane client configured", nil)
	}
	return &Kind{client: client}, nil
}

func (k *Kind) Identity(spec Spec) reconcile.Identity {
	return reconcile.Identity{Kind: config.KindMount, Name: spec.Name, Vserver: spec.Vserver}
}

func (k *Kind) Fetch(ctx context.Context, spec Spec) (*Snapshot, error) {
	return fetch(ctx, k.client, spec)
}

func (k *Kind) Decide(spec Spec, current *Snapshot) reconcile.Decision {
	return Decide(spec, current)
}

func (k *Kind) Execute(ctx context.Context, _ Spec, action reconcile.Action) error {
	return execute(ctx, k.client, action)
}

type view struct {
	State          string          `yaml:"state"`
	JunctionPath   string          `yaml:"junction_path,omitempty"`
	JunctionActive *model.Tristate `yaml:"junction_active,omitempty"`
}

func (k *Kind) Preview(spec Spec, current *Snapshot) (any, any) {
	want := view{State: config.StateUnmounted}
	if spec.Mounted {
		active := model.True
		want = view{State: config.StateMounted, JunctionPath: spec.JunctionPath, JunctionActive: &active}
	}

	have := view{State: "absent"}
	switch {
	case current.Bound():
		active := current.JunctionActive
		have = view{State: config.StateMounted, JunctionPath: current.JunctionPath, JunctionActive: &active}
	case current != nil:
		have = view{State: config.StateUnmounted}
	}
	return want, have
}
