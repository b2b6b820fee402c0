package plugin

import (
	"fmt"
	"strings"
)

// ErrPluginNotFound is returned when no plugin handles the requested kind.
type ErrPluginNotFound struct {
	Name  string
	Known []string
}

func (e ErrPluginNotFound) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("no plugin registered for kind '%s'", e.Name)
	}
	return fmt.Sprintf("no plugin registered for kind '%s'\nHint: known kinds are %s", e.Name, strings.Join(e.Known, ", "))
}
