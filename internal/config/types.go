package config

import (
	"gopkg.in/yaml.v3"
)

// Resource kinds understood by the reconcilers.
const (
	KindClone = "clone"
	KindMount = "mount"
)

// Desired states per kind.
const (
	StatePresent   = "present"
	StateAbsent    = "absent"
	StateMounted   = "mounted"
	StateUnmounted = "unmounted"
)

// kindStates is the state vocabulary of each kind.
var kindStates = map[string][]string{
	KindClone: {StatePresent, StateAbsent},
	KindMount: {StateMounted, StateUnmounted},
}

// StatesFor returns the accepted states of kind, or nil for unknown kinds.
func StatesFor(kind string) []string {
	return append([]string(nil), kindStates[kind]...)
}

// Document is one declarative invocation: where to connect and which
// resource to reconcile.
type Document struct {
	Connection Connection `yaml:"connection"`
	Resource   Resource   `yaml:"resource"`
}

// Connection holds the storage controller endpoint and credentials.
type Connection struct {
	Hostname      string `yaml:"hostname" validate:"required,hostname_rfc1123|ip"`
	Username      string `yaml:"username" validate:"required"`
	Password      string `yaml:"password"`
	HTTPS         bool   `yaml:"https"`
	Port          int    `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	ValidateCerts bool   `yaml:"validate_certs"`
	APIVersion    string `yaml:"api_version,omitempty" validate:"omitempty,api_version"`
	// Timeout is in seconds; zero means no client-side limit.
	Timeout int `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=3600"`
}

// DefaultConnection returns the connection defaults: HTTPS with certificate
// validation.
func DefaultConnection() Connection {
	return Connection{HTTPS: true, ValidateCerts: true}
}

// UnmarshalYAML applies defaults for keys the document leaves out.
func (c *Connection) UnmarshalYAML(value *yaml.Node) error {
	type rawConnection Connection
	temp := rawConnection(DefaultConnection())
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*c = Connection(temp)
	return nil
}

// Resource is the declared state of a single clone or mount.
type Resource struct {
	Kind    string `yaml:"kind" validate:"required,oneof=clone mount"`
	Name    string `yaml:"name" validate:"required,volume_name"`
	Vserver string `yaml:"vserver" validate:"required"`
	State   string `yaml:"state" validate:"required"`

	ParentVolume string `yaml:"parent_volume,omitempty" validate:"required_if=Kind clone State present,omitempty,volume_name"`
	SnapshotName string `yaml:"snapshot_name,omitempty" validate:"omitempty,max=255"`
	// Online is nil when not declared; clones default to online.
	Online *bool `yaml:"online,omitempty"`

	JunctionPath string `yaml:"junction_path,omitempty" validate:"omitempty,startswith=/"`
}
