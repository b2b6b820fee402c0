package mount

import (
	"context"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/plugin"
	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

type mountPlugin struct{}

// New returns the mount plugin.
func New() plugin.Plugin {
	return &mountPlugin{}
}

func (p *mountPlugin) Metadata() plugin.Metadata {
	return plugin.Metadata{
		Name:        config.KindMount,
		Version:     "1.0.0",
		Description: "Mounts, unmounts and re-activates volume junction paths",
		States:      config.StatesFor(config.KindMount),
	}
}

func (p *mountPlugin) Reconcile(ctx context.Context, client zapi.Client, res config.Resource, opts plugin.RunOptions) (*model.Outcome, error) {
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
