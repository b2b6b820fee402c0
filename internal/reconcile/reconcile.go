// Package reconcile drives one resource from its observed state towards its
// declared state. Resource kinds plug in a Kind strategy; the Reconciler owns
// the fetch, decide, execute sequence shared by all of them.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/cdotctl/internal/logger"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/pkg/diff"
	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

// Action is one control-plane transition produced by a Decide call.
type Action interface {
	// Name identifies the action in logs, errors and the outcome.
	Name() string
}

// Decision is what Decide computed for one (desired, current) pair.
type Decision struct {
	Changed bool
	Actions []Action
}

// NoChange is the empty decision.
func NoChange() Decision {
	return Decision{}
}

// Change builds a decision that applies actions in the given order.
func Change(actions ...Action) Decision {
	return Decision{Changed: true, Actions: actions}
}

// ActionNames lists the names of the decision's actions in order.
func (d Decision) ActionNames() []string {
	names := make([]string, 0, len(d.Actions))
	for _, a := range d.Actions {
		names = append(names, a.Name())
	}
	return names
}

// PartialError marks an action that failed after some of its control-plane
// calls had already taken effect.
type PartialError struct {
	Err error
}

// Partial wraps err as a PartialError. It returns nil for a nil error.
func Partial(err error) error {
	if err == nil {
		return nil
	}
	return &PartialError{Err: err}
}

func (e *PartialError) Error() string {
	return e.Err.Error()
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Identity names the resource being reconciled.
type Identity struct {
	Kind    string
	Name    string
	Vserver string
}

// Kind is the strategy a resource kind supplies. S is the normalized snapshot
// type; Fetch returns a nil *S when the resource does not exist.
type Kind[D any, S any] interface {
	Identity(desired D) Identity
	Fetch(ctx context.Context, desired D) (*S, error)
	// Decide must be pure and total.
	Decide(desired D, current *S) Decision
	Execute(ctx context.Context, desired D, action Action) error
	// Preview returns YAML-encodable views of the desired and current state
	// used to render the dry-run diff.
	Preview(desired D, current *S) (want, have any)
}

// Evaluation is the read-only half of a run.
type Evaluation[D any, S any] struct {
	Desired  D
	Current  *S
	Decision Decision
}

// Reconciler runs a Kind against one desired resource.
type Reconciler[D any, S any] struct {
	kind Kind[D, S]
	log  *logger.Logger
}

// New builds a Reconciler. A nil kind is a configuration error.
func New[D any, S any](kind Kind[D, S], log *logger.Logger) (*Reconciler[D, S], error) {
	if kind == nil {
		return nil, cdoterrors.NewConfigurationError("kind", "no resource kind supplied", nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler[D, S]{kind: kind, log: log}, nil
}

// Evaluate fetches the current state exactly once and decides on it.
func (r *Reconciler[D, S]) Evaluate(ctx context.Context, desired D) (*Evaluation[D, S], error) {
	id := r.kind.Identity(desired)
	log := r.scoped(id)

	current, err := r.kind.Fetch(ctx, desired)
	if err != nil {
		var fetchErr *cdoterrors.FetchError
		if !errors.As(err, &fetchErr) {
			err = cdoterrors.NewFetchError(id.Name, id.Vserver, err)
		}
		log.Error(err, "fetch failed")
		return nil, err
	}
	if current == nil {
		log.Debug("resource absent")
	} else {
		log.Debug("resource present")
	}

	decision := r.kind.Decide(desired, current)
	log.WithFields(map[string]any{"changed": decision.Changed, "actions": decision.ActionNames()}).Debug("decided")

	return &Evaluation[D, S]{Desired: desired, Current: current, Decision: decision}, nil
}

// Apply executes the evaluation's actions in order. The first failure stops
// the sequence; already applied actions are not rolled back. It returns the
// names of the actions that completed. A failing action that reported a
// PartialError is not among them; Run records it in Outcome.Partial.
func (r *Reconciler[D, S]) Apply(ctx context.Context, ev *Evaluation[D, S]) ([]string, error) {
	if ev == nil {
		return nil, fmt.Errorf("apply: nil evaluation")
	}

	id := r.kind.Identity(ev.Desired)
	log := r.scoped(id)

	applied := make([]string, 0, len(ev.Decision.Actions))
	for _, action := range ev.Decision.Actions {
		actionLog := log.With("action", action.Name())
		actionLog.Debug("executing")

		if err := r.kind.Execute(ctx, ev.Desired, action); err != nil {
			wrapped := cdoterrors.NewActionError(id.Name, action.Name(), err)
			actionLog.Error(wrapped, "action failed")
			return applied, wrapped
		}
		applied = append(applied, action.Name())
		actionLog.Info("applied")
	}
	return applied, nil
}

// Run reconciles desired end to end. In dry-run mode nothing is executed and
// the outcome carries the same changed flag a real run would report, plus a
// diff preview. On error the returned outcome is still populated: Failure is
// set and Actions lists what completed before the failure.
func (r *Reconciler[D, S]) Run(ctx context.Context, desired D, dryRun bool) (*model.Outcome, error) {
	id := r.kind.Identity(desired)
	outcome := &model.Outcome{
		DryRun:   dryRun,
		Kind:     id.Kind,
		Resource: id.Name,
		Vserver:  id.Vserver,
		Actions:  []string{},
	}

	ev, err := r.Evaluate(ctx, desired)
	if err != nil {
		outcome.Failure = model.NewFailure(err)
		return outcome, err
	}

	if dryRun {
		outcome.Changed = ev.Decision.Changed
		outcome.Actions = ev.Decision.ActionNames()
		if ev.Decision.Changed {
			outcome.Diff = r.preview(ev)
		}
		return outcome, nil
	}

	applied, err := r.Apply(ctx, ev)
	outcome.Actions = applied
	if err != nil {
		outcome.Changed = len(applied) > 0
		var partial *PartialError
		var actionErr *cdoterrors.ActionError
		if errors.As(err, &partial) && errors.As(err, &actionErr) {
			outcome.Changed = true
			outcome.Partial = actionErr.Action
		}
		outcome.Failure = model.NewFailure(err)
		return outcome, err
	}
	outcome.Changed = ev.Decision.Changed
	return outcome, nil
}

func (r *Reconciler[D, S]) preview(ev *Evaluation[D, S]) string {
	want, have := r.kind.Preview(ev.Desired, ev.Current)

	wantYAML, err := yaml.Marshal(want)
	if err != nil {
		r.log.Warn(fmt.Sprintf("render desired state: %v", err))
		return ""
	}
	haveYAML, err := yaml.Marshal(have)
	if err != nil {
		r.log.Warn(fmt.Sprintf("render current state: %v", err))
		return ""
	}
	return diff.Unified(haveYAML, wantYAML, "current", "desired")
}

func (r *Reconciler[D, S]) scoped(id Identity) *logger.Logger {
	return r.log.ForResource(id.Kind, id.Name, id.Vserver)
}
