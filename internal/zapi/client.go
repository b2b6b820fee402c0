// Package zapi talks to a clustered storage controller through its XML
// management API. The reconcilers only see the Client interface; the HTTP
// implementation and the in-memory fake both live behind it.
package zapi

import (
	"context"
	"fmt"
	"strconv"
)

// Routing selects whether a call executes in cluster scope or tunneled into
// the vserver configured on the client.
type Routing int

const (
	// Direct sends the request to the cluster management interface as is.
	Direct Routing = iota
	// Tunneled addresses the request to the client's vserver.
	Tunneled
)

func (r Routing) String() string {
	if r == Tunneled {
		return "tunneled"
	}
	return "direct"
}

// Query selects the records of one resource kind by name within a vserver.
type Query struct {
	// Kind is the object family, e.g. "volume"; it selects <kind>-get-iter.
	Kind    string
	Name    string
	Vserver string
	Routing Routing
}

// Client is the storage control-plane capability consumed by the reconcilers.
type Client interface {
	// Query returns the raw <kind>-attributes records matching q. Zero
	// records is not an error.
	Query(ctx context.Context, q Query) ([]*Element, error)
	// Invoke runs a single operation and reports its failure detail.
	Invoke(ctx context.Context, op string, params Params, routing Routing) error
}

// APIError is a failure reported by the control plane itself.
type APIError struct {
	Operation string
	Errno     string
	Reason    string
}

func (e *APIError) Error() string {
	if e.Errno != "" {
		return fmt.Sprintf("%s failed: errno %s: %s", e.Operation, e.Errno, e.Reason)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Reason)
}

// QueryElement builds the <kind>-get-iter request for q.
func QueryElement(q Query) *Element {
	id := NewElement(q.Kind+"-id-attributes").AddNewChild("name", q.Name)
	if q.Vserver != "" {
		id.AddNewChild("owning-vserver-name", q.Vserver)
	}

	attrs := NewElement(q.Kind + "-attributes").AddChild(id)
	query := NewElement("query").AddChild(attrs)
	return NewElement(q.Kind + "-get-iter").AddChild(query)
}

// QueryRecords extracts the matching records from a <kind>-get-iter result.
// A missing or non-numeric num-records, or a positive count without an
// attributes-list, is a malformed response.
func QueryRecords(kind string, results *Element) ([]*Element, error) {
	raw, ok := results.ChildContent("num-records")
	if !ok {
		return nil, fmt.Errorf("%s-get-iter: response has no num-records", kind)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s-get-iter: invalid num-records %q: %w", kind, raw, err)
	}
	if n < 1 {
		return nil, nil
	}

	list := results.Child("attributes-list")
	if list == nil {
		return nil, fmt.Errorf("%s-get-iter: %d records reported without attributes-list", kind, n)
	}
	return list.ChildrenNamed(kind + "-attributes"), nil
}
