// Package clone reconciles the existence and online state of a volume cloned
// from a parent volume.
package clone

import (
	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

// Spec is the declared state of a clone.
type Spec struct {
	Name         string
	ParentVolume string
	// SnapshotName is optional; empty clones from the parent's active file system.
	SnapshotName string
	Vserver      string
	Present      bool
	Online       bool
}

// SpecFrom builds a Spec from a declared resource. Online defaults to true.
func SpecFrom(res config.Resource) (Spec, error) {
	if res.Kind != config.KindClone {
		return Spec{}, cdoterrors.NewConfigurationError("resource.kind", "expected "+config.KindClone+", got "+res.Kind, nil)
	}
	if res.Name == "" {
		return Spec{}, cdoterrors.NewConfigurationError("resource.name", "is required", nil)
	}
	if res.Vserver == "" {
		return Spec{}, cdoterrors.NewConfigurationError("resource.vserver", "is required", nil)
	}

	spec := Spec{
		Name:         res.Name,
		ParentVolume: res.ParentVolume,
		SnapshotName: res.SnapshotName,
		Vserver:      res.Vserver,
		Online:       true,
	}
	if res.Online != nil {
		spec.Online = *res.Online
	}

	switch res.State {
	case config.StatePresent:
		if res.ParentVolume == "" {
			return Spec{}, cdoterrors.NewConfigurationError("resource.parent_volume", "is required when state is present", nil)
		}
		spec.Present = true
	case config.StateAbsent:
	default:
		return Spec{}, cdoterrors.NewConfigurationError("resource.state", "must be one of present, absent", nil)
	}
	return spec, nil
}

// Snapshot is the observed state of an existing clone.
type Snapshot struct {
	Name string
	// SizeBytes is informational only.
	SizeBytes int64
	Online    model.Tristate
}
