package model

import "encoding/json"

// Tristate is a boolean that may not have been observable.
type Tristate int

const (
	// Unknown means the attribute was missing or carried an unrecognised value.
	Unknown Tristate = iota
	// True is an observed true.
	True
	// False is an observed false.
	False
)

// TristateOf converts a known boolean.
func TristateOf(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// ParseTristate maps the two literals onto True and False. Anything else,
// including the empty string, is Unknown.
func ParseTristate(s, trueLiteral, falseLiteral string) Tristate {
	switch s {
	case trueLiteral:
		return True
	case falseLiteral:
		return False
	default:
		return Unknown
	}
}

// Known reports whether the value was observed.
func (t Tristate) Known() bool {
	return t == True || t == False
}

// Bool returns the observed value and whether it is known.
func (t Tristate) Bool() (value, ok bool) {
	return t == True, t.Known()
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes Unknown as null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	if !t.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(t == True)
}

// MarshalYAML encodes Unknown as the string "unknown".
func (t Tristate) MarshalYAML() (any, error) {
	if !t.Known() {
		return t.String(), nil
	}
	return t == True, nil
}
