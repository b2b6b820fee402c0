package mount

import (
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/reconcile"
)

// Decide maps a desired spec and the observed volume onto actions. Guards are
// evaluated in order and the first match wins. A volume that does not exist
// is never mounted.
func Decide(spec Spec, current *Snapshot) reconcile.Decision {
	switch {
	case current == nil:
		return reconcile.NoChange()
	case current.Bound() && !spec.Mounted:
		return reconcile.Change(Unmount{Volume: spec.Name})
	case current.Bound() && current.JunctionPath != spec.JunctionPath:
		// A junction path cannot be changed in place.
		return reconcile.Change(
			Unmount{Volume: spec.Name},
			Mount{Volume: spec.Name, JunctionPath: spec.JunctionPath},
		)
	case current.Bound() && current.JunctionActive == model.False:
		return reconcile.Change(Mount{Volume: spec.Name, JunctionPath: spec.JunctionPath})
	case !current.Bound() && spec.Mounted:
		return reconcile.Change(Mount{Volume: spec.Name, JunctionPath: spec.JunctionPath})
	default:
		return reconcile.NoChange()
	}
}
