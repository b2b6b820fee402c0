package clone

import (
	"context"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/plugin"
	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

type clonePlugin struct{}

// New returns the clone plugin.
func New() plugin.Plugin {
	return &clonePlugin{}
}

func (p *clonePlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        config.KindClone,
		Version:     "1.0.0",
		Description: "Creates, destroys and sets the online state of cloned volumes",
		States:      config.StatesFor(config.KindClone),
	}
}

func (p *clonePlugin) Reconcile(ctx context.Context, client zapi.Client, res config.Resource, opts plugin.RunOptions) (*model.Outcome, error) {
	spec, err := SpecFrom(res)
	if err != nil {
		return nil, err
	}
	kind, err := NewKind(client)
	if err != nil {
		return nil, err
	}
	r, err := reconcile.New[Spec, Snapshot](kind, opts.Logger)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, spec, opts.DryRun)
}
