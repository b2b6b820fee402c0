package clone

import (
	"context"
	"strconv"

	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/plugins/volumeutil"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

// fetch looks the clone up in cluster scope. A record without identity
// attributes is malformed; missing state or size attributes are not.
func fetch(ctx context.Context, client zapi.Client, spec Spec) (*Snapshot, error) {
	record, err := volumeutil.Lookup(ctx, client, spec.Name, spec.Vserver, zapi.Direct)
	if err != nil {
		return nil, cdoterrors.NewFetchError(spec.Name, spec.Vserver, err)
	}
	if record == nil {
		return nil, nil
	}

	name, err := volumeutil.Name(record)
	if err != nil {
		return nil, cdoterrors.NewFetchError(spec.Name, spec.Vserver, err)
	}

	snap := &Snapshot{Name: name}
	if size, ok := volumeutil.Attr(record, volumeutil.SpaceAttributes, "size"); ok {
		snap.SizeBytes, _ = strconv.ParseInt(size, 10, 64)
	}
	state, _ := volumeutil.Attr(record, volumeutil.StateAttributes, "state")
	snap.Online = model.ParseTristate(state, "online", "offline")
	return snap, nil
}
