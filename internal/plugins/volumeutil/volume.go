// Package volumeutil holds the volume lookup shared by the clone and mount
// reconcilers.
package volumeutil

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
)

// Attribute groups of a volume-attributes record.
const (
	IDAttributes    = "volume-id-attributes"
	StateAttributes = "volume-state-attributes"
	SpaceAttributes = "volume-space-attributes"
)

// Lookup queries volume name in vserver and returns the first record, or nil
// when there is none. Names are unique per vserver, so further records are
// ignored.
func Lookup(ctx context.Context, client zapi.Client, name, vserver string, routing zapi.Routing) (*zapi.Element, error) {
	records, err := client.Query(ctx, zapi.Query{
		Kind:    "volume",
		Name:    name,
		Vserver: vserver,
		Routing: routing,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Attr returns child of the attribute group, and whether both exist.
func Attr(record *zapi.Element, group, child string) (string, bool) {
	return record.Child(group).ChildContent(child)
}

// Name returns the record's volume name. A record without
// volume-id-attributes/name is malformed.
func Name(record *zapi.Element) (string, error) {
	name, ok := Attr(record, IDAttributes, "name")
	if !ok || name == "" {
		return "", fmt.Errorf("record has no %s/name", IDAttributes)
	}
	return name, nil
}
