package clone

import (
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
)

// Decide maps a desired spec and the observed clone onto actions.
// An unknown online state never triggers a state change.
func Decide(spec Spec, current *Snapshot) reconcile.Decision {
	if current == nil {
		if spec.Present {
			return reconcile.Change(Create{
				Volume:   spec.Name,
				Parent:   spec.ParentVolume,
				Snapshot: spec.SnapshotName,
			})
		}
		return reconcile.NoChange()
	}

	if !spec.Present {
		return reconcile.Change(Destroy{Volume: spec.Name, TakeOffline: current.Online != model.False})
	}

	online, known := current.Online.Bool()
	if !known || online == spec.Online {
		return reconcile.NoChange()
	}
	return reconcile.Change(SetOnlineState{Volume: spec.Name, Online: spec.Online})
}
