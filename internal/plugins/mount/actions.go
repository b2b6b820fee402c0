package mount

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

const (
	opMount   = "volume-mount"
	opUnmount = "volume-unmount"
)

// Mount binds the volume to JunctionPath, or re-activates an inactive binding.
type Mount struct {
	Volume       string
	JunctionPath string
}

// Name implements reconcile.Action.
func (a Mount) Name() string { return "mount " + a.JunctionPath }

// Unmount detaches the volume from its junction, always forced.
type Unmount struct {
	Volume string
}

// Name implements reconcile.Action.
func (a Unmount) Name() string { return "unmount" }

func execute(ctx context.Context, client zapi.Client, action reconcile.Action) error {
	switch a := action.(type) {
	case Mount:
		return client.Invoke(ctx, opMount, zapi.Params{
			"volume-name":   a.Volume,
			"junction-path": a.JunctionPath,
		}, zapi.Tunneled)
	case Unmount:
		return client.Invoke(ctx, opUnmount, zapi.Params{
			"volume-name": a.Volume,
			"force":       "true",
		}, zapi.Tunneled)
	default:
		return fmt.Errorf("unsupported mount action %T", action)
	}
}
