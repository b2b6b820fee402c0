// Package plugin registers resource kinds and dispatches a declared resource
// to the reconciler for its kind.
package plugin

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/logger"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Metadata describes a resource kind.
type Metadata struct {
	// Name is the kind, matched against config.Resource.Kind.
	Name        string
	Version     string
	Description string
	States      []string
}

// Validate ensures metadata is well-formed.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("plugin metadata requires a non-empty Name")
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("plugin '%s' has invalid Version '%s' (expected format: X.Y.Z)", m.Name, m.Version)
	}
	if len(m.States) == 0 {
		return fmt.Errorf("plugin '%s' declares no states", m.Name)
	}
	return nil
}

// RunOptions carries per-invocation settings.
type RunOptions struct {
	DryRun bool
	Logger *logger.Logger
}

// Plugin reconciles one kind of resource.
//
// Reconcile must build its desired spec from res before touching the client,
// so that configuration problems surface without any control-plane traffic.
// The returned outcome is non-nil whenever the spec was valid, even on error.
type Plugin interface {
	Metadata() Metadata
	Reconcile(ctx context.Context, client zapi.Client, res config.Resource, opts RunOptions) (*model.Outcome, error)
}
