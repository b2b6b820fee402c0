package clone

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

const (
	opCloneCreate = "volume-clone-create"
	opOnline      = "volume-online"
	opOffline     = "volume-offline"
	opDestroy     = "volume-destroy"
)

// Create clones Parent into Volume, optionally from a named snapshot.
type Create struct {
	Volume   string
	Parent   string
	Snapshot string
}

// Name implements reconcile.Action.
func (a Create) Name() string { return "create" }

// Params returns the clone-create parameters. parent-snapshot is only set
// when a snapshot was requested.
func (a Create) Params() zapi.Params {
	params := zapi.Params{
		"volume":        a.Volume,
		"parent-volume": a.Parent,
	}
	if a.Snapshot != "" {
		params["parent-snapshot"] = a.Snapshot
	}
	return params
}

// SetOnlineState brings the volume online or takes it offline.
type SetOnlineState struct {
	Volume string
	Online bool
}

// Name implements reconcile.Action.
func (a SetOnlineState) Name() string {
	if a.Online {
		return "online"
	}
	return "offline"
}

// Destroy removes the volume. The controller refuses to destroy an online
// volume, so TakeOffline first issues an offline unless the volume was
// observed offline already. A destroy failing after that offline is
// reported as partially applied.
type Destroy struct {
	Volume      string
	TakeOffline bool
}

// Name implements reconcile.Action.
func (a Destroy) Name() string { return "destroy" }

func execute(ctx context.Context, client zapi.Client, action reconcile.Action) error {
	switch a := action.(type) {
	case Create:
		if err := client.Invoke(ctx, opCloneCreate, a.Params(), zapi.Direct); err != nil {
			return fmt.Errorf("clone %s to %s: %w", a.Parent, a.Volume, err)
		}
		return nil
	case SetOnlineState:
		op := opOffline
		if a.Online {
			op = opOnline
		}
		return client.Invoke(ctx, op, zapi.Params{"name": a.Volume}, zapi.Tunneled)
	case Destroy:
		if a.TakeOffline {
			if err := client.Invoke(ctx, opOffline, zapi.Params{"name": a.Volume}, zapi.Tunneled); err != nil {
				return err
			}
		}
		if err := client.Invoke(ctx, opDestroy, zapi.Params{"name": a.Volume}, zapi.Tunneled); err != nil {
			if a.TakeOffline {
				return reconcile.Partial(fmt.Errorf("volume %s was taken offline: %w", a.Volume, err))
			}
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported clone action %T", action)
	}
}
