// Package mount reconciles the junction binding of an existing volume.
package mount

import (
	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

// Spec is the declared junction state of a volume.
type Spec struct {
	Name    string
	Vserver string
	// JunctionPath is always resolved; it defaults to "/" + Name.
	JunctionPath string
	Mounted      bool
}

// SpecFrom builds a Spec from a declared resource.
func SpecFrom(res config.Resource) (Spec, error) {
	if res.Kind != config.KindMount {
		return Spec{}, cdoterrors.NewConfigurationError("resource.kind", "expected "+config.KindMount+", got "+res.Kind, nil)
	}
	if res.Name == "" {
		return Spec{}, cdoterrors.NewConfigurationError("resource.name", "is required", nil)
	}
	if res.Vserver == "" {
		return Spec{}, cdoterrors.NewConfigurationError("resource.vserver", "is required", nil)
	}

	spec := Spec{Name: res.Name, Vserver: res.Vserver, JunctionPath: res.JunctionPath}
	if spec.JunctionPath == "" {
		spec.JunctionPath = "/" + res.Name
	}

	switch res.State {
	case config.StateMounted:
		spec.Mounted = true
	case config.StateUnmounted:
	default:
		return Spec{}, cdoterrors.NewConfigurationError("resource.state", "must be one of mounted, unmounted", nil)
	}
	return spec, nil
}

// Snapshot is the observed junction state of an existing volume.
type Snapshot struct {
	Name string
	// JunctionPath is empty when the volume is not bound.
	JunctionPath   string
	JunctionActive model.Tristate
}

// Bound reports whether the volume has a junction path.
func (s *Snapshot) Bound() bool {
	return s != nil && s.JunctionPath != ""
}
