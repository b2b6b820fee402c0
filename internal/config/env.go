package config

import "os"

// Environment variables consulted when a connection field is left empty.
const (
	EnvHostname = "CDOTCTL_HOSTNAME"
	EnvUsername = "CDOTCTL_USERNAME"
	EnvPassword = "CDOTCTL_PASSWORD"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// OSLookup reads the process environment.
var OSLookup LookupFunc = os.LookupEnv

// ApplyEnv fills empty hostname, username and password from lookup.
func (c *Connection) ApplyEnv(lookup LookupFunc) {
	if lookup == nil {
		return
	}
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	fill(&c.Hostname, EnvHostname)
	fill(&c.Username, EnvUsername)
	fill(&c.Password, EnvPassword)
}

// Resolve fills empty connection fields from lookup (which may be nil) and
// validates the document.
func (d *Document) Resolve(lookup LookupFunc) error {
	if d == nil {
		return ValidateDocument(nil)
	}
	d.Connection.ApplyEnv(lookup)
	return ValidateDocument(d)
}
