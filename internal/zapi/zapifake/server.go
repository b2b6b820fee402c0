// Package zapifake is an in-memory control plane implementing zapi.Client.
// It models just enough volume behavior for the reconcilers to converge
// against it, and records every call for assertions.
package zapifake

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

// Volume is the stored state of one volume.
type Volume struct {
	Name           string
	Vserver        string
	SizeBytes      int64
	State          string
	JunctionPath   string
	JunctionActive string
	Parent         string
	ParentSnapshot string
}

// Call is one recorded Invoke.
type Call struct {
	Op      string
	Params  zapi.Params
	Routing zapi.Routing
}

// Server holds volumes keyed by vserver and name.
type Server struct {
	mu      sync.Mutex
	vserver string
	volumes map[string]*Volume
	calls   []Call
	queries []zapi.Query
	fail    map[string]error
}

// New creates a server whose Invoke calls act on vserver.
func New(vserver string) *Server {
	return &Server{
		vserver: vserver,
		volumes: make(map[string]*Volume),
		fail:    make(map[string]error),
	}
}

// AddVolume stores v, defaulting its vserver and state.
func (s *Server) AddVolume(v Volume) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.Vserver == "" {
		v.Vserver = s.vserver
	}
	if v.State == "" {
		v.State = "online"
	}
	s.volumes[key(v.Vserver, v.Name)] = &v
}

// Volume returns a copy of the stored volume.
func (s *Server) Volume(name string) (Volume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.volumes[key(s.vserver, name)]
	if !ok {
		return Volume{}, false
	}
	return *v, true
}

// FailOn makes every later Invoke of op return err.
func (s *Server) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// Calls returns the recorded Invoke calls in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Queries returns the recorded queries in order.
func (s *Server) Queries() []zapi.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]zapi.Query(nil), s.queries...)
}

// Ops returns the recorded operation names in order.
func (s *Server) Ops() []string {
	calls := s.Calls()
	ops := make([]string, 0, len(calls))
	for _, c := range calls {
		ops = append(ops, c.Op)
	}
	return ops
}

// Query implements zapi.Client.
func (s *Server) Query(_ context.Context, q zapi.Query) ([]*zapi.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, q)
	if err := s.fail[q.Kind+"-get-iter"]; err != nil {
		return nil, err
	}
	if q.Kind != "volume" {
		return nil, &zapi.APIError{Operation: q.Kind + "-get-iter", Errno: "13005", Reason: "Unable to find API"}
	}

	vserver := q.Vserver
	if vserver == "" {
		vserver = s.vserver
	}
	v, ok := s.volumes[key(vserver, q.Name)]
	if !ok {
		return nil, nil
	}
	return []*zapi.Element{v.attributes()}, nil
}

// Invoke implements zapi.Client.
func (s *Server) Invoke(_ context.Context, op string, params zapi.Params, routing zapi.Routing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(zapi.Params, len(params))
	for k, v := range params {
		copied[k] = v
	}
	s.calls = append(s.calls, Call{Op: op, Params: copied, Routing: routing})

	if err := s.fail[op]; err != nil {
		return err
	}

	switch op {
	case "volume-clone-create":
		return s.cloneCreate(params)
	case "volume-online":
		return s.setState(op, params["name"], "online")
	case "volume-offline":
		return s.setState(op, params["name"], "offline")
	case "volume-destroy":
		return s.destroy(params["name"])
	case "volume-mount":
		return s.mount(params["volume-name"], params["junction-path"])
	case "volume-unmount":
		return s.unmount(params["volume-name"])
	default:
		return &zapi.APIError{Operation: op, Errno: "13005", Reason: "Unable to find API: " + op}
	}
}

func (s *Server) cloneCreate(params zapi.Params) error {
	const op = "volume-clone-create"

	name, parent := params["volume"], params["parent-volume"]
	if _, exists := s.volumes[key(s.vserver, name)]; exists {
		return &zapi.APIError{Operation: op, Errno: "17122", Reason: fmt.Sprintf("Duplicate volume name %s", name)}
	}
	p, ok := s.volumes[key(s.vserver, parent)]
	if !ok {
		return &zapi.APIError{Operation: op, Errno: "13040", Reason: fmt.Sprintf("Parent volume %s not found", parent)}
	}

	s.volumes[key(s.vserver, name)] = &Volume{
		Name:           name,
		Vserver:        s.vserver,
		SizeBytes:      p.SizeBytes,
		State:          "online",
		Parent:         parent,
		ParentSnapshot: params["parent-snapshot"],
	}
	return nil
}

func (s *Server) setState(op, name, state string) error {
	v, err := s.lookup(op, name)
	if err != nil {
		return err
	}
	v.State = state
	if state == "offline" && v.JunctionPath != "" {
		v.JunctionActive = "false"
	}
	return nil
}

func (s *Server) destroy(name string) error {
	const op = "volume-destroy"

	v, err := s.lookup(op, name)
	if err != nil {
		return err
	}
	if v.State != "offline" {
		return &zapi.APIError{Operation: op, Errno: "13001", Reason: fmt.Sprintf("Volume %s must be offline before it can be destroyed", name)}
	}
	delete(s.volumes, key(s.vserver, name))
	return nil
}

func (s *Server) mount(name, path string) error {
	const op = "volume-mount"

	v, err := s.lookup(op, name)
	if err != nil {
		return err
	}
	for _, other := range s.volumes {
		if other != v && other.Vserver == v.Vserver && other.JunctionPath == path {
			return &zapi.APIError{Operation: op, Errno: "13040", Reason: fmt.Sprintf("Junction path %s is already in use", path)}
		}
	}
	if v.JunctionPath != "" && v.JunctionPath != path {
		return &zapi.APIError{Operation: op, Errno: "13001", Reason: fmt.Sprintf("Volume %s is already mounted at %s", name, v.JunctionPath)}
	}
	v.JunctionPath = path
	v.JunctionActive = "true"
	return nil
}

func (s *Server) unmount(name string) error {
	v, err := s.lookup("volume-unmount", name)
	if err != nil {
		return err
	}
	v.JunctionPath = ""
	v.JunctionActive = ""
	return nil
}

func (s *Server) lookup(op, name string) (*Volume, error) {
	v, ok := s.volumes[key(s.vserver, name)]
	if !ok {
		return nil, &zapi.APIError{Operation: op, Errno: "13040", Reason: fmt.Sprintf("Volume %s not found", name)}
	}
	return v, nil
}

func (v *Volume) attributes() *zapi.Element {
	id := zapi.NewElement("volume-id-attributes").
		AddNewChild("name", v.Name).
		AddNewChild("owning-vserver-name", v.Vserver)
	if v.JunctionPath != "" {
		id.AddNewChild("junction-path", v.JunctionPath)
	}

	space := zapi.NewElement("volume-space-attributes").
		AddNewChild("size", strconv.FormatInt(v.SizeBytes, 10))

	state := zapi.NewElement("volume-state-attributes").AddNewChild("state", v.State)
	if v.JunctionActive != "" {
		state.AddNewChild("is-junction-active", v.JunctionActive)
	}

	return zapi.NewElement("volume-attributes").AddChild(id).AddChild(space).AddChild(state)
}

func key(vserver, name string) string {
	return vserver + "/" + name
}
