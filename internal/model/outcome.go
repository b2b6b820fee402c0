package model

import (
	"errors"
)

// Outcome is the externally observable result of reconciling one resource.
type Outcome struct {
	Changed  bool     `json:"changed"`
	DryRun   bool     `json:"check_mode"`
	Kind     string   `json:"kind"`
	Resource string   `json:"name"`
	Vserver  string   `json:"vserver"`
	RunID    string   `json:"run_id,omitempty"`
	Actions  []string `json:"actions"`
	// Partial names the action that failed after part of it took effect.
	Partial string `json:"partial,omitempty"`
	// Diff is only populated for dry runs that would change something.
	Diff    string   `json:"diff,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// Failed reports whether the invocation ended in an error.
func (o *Outcome) Failed() bool {
	return o != nil && o.Failure != nil
}

// Failure describes a terminal error: the top-level message plus the chain of
// wrapped causes, outermost first.
type Failure struct {
	Message string   `json:"msg"`
	Chain   []string `json:"chain,omitempty"`
}

// NewFailure flattens err into a Failure. It returns nil for a nil error.
func NewFailure(err error) *Failure {
	if err == nil {
		return nil
	}

	f := &Failure{Message: err.Error()}
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		f.Chain = append(f.Chain, cause.Error())
	}
	return f
}
