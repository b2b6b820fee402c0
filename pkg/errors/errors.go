package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigurationError reports a desired resource that cannot be reconciled as
// declared, e.g. a missing required field for the requested state. It is
// raised before any control-plane call is made.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

// NewConfigurationError constructs a ConfigurationError.
func NewConfigurationError(field, message string, err error) error {
	return &ConfigurationError{Field: field, Message: message, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	_, ok := target.(*ConfigurationError)
	return ok
}

// FetchError means the current state of a resource could not be read.
type FetchError struct {
	Resource string
	Vserver  string
	Err      error
}

// NewFetchError constructs a FetchError.
func NewFetchError(resource, vserver string, err error) error {
	return &FetchError{Resource: resource, Vserver: vserver, Err: err}
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.Vserver != "" {
		return fmt.Sprintf("error fetching %s on vserver %s: %v", e.Resource, e.Vserver, e.Err)
	}
	return fmt.Sprintf("error fetching %s: %v", e.Resource, e.Err)
}

// Unwrap exposes the root error.
func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a FetchError.
func (e *FetchError) Is(target error) bool {
	_, ok := target.(*FetchError)
	return ok
}

// ActionError is returned when applying an action against the control plane
// failed. Actions following the failed one were not attempted.
type ActionError struct {
	Resource string
	Action   string
	Err      error
}

// NewActionError constructs an ActionError for the named action.
func NewActionError(resource, action string, err error) error {
	return &ActionError{Resource: resource, Action: action, Err: err}
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("error applying %s to %s: %v", e.Action, e.Resource, e.Err)
}

// Unwrap exposes the underlying control-plane error.
func (e *ActionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an ActionError.
func (e *ActionError) Is(target error) bool {
	_, ok := target.(*ActionError)
	return ok
}
