package mount

import (
	"context"

	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/plugins/volumeutil"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

func fetch(ctx context.Context, client zapi.Client, spec Spec) (*Snapshot, error) {
	record, err := volumeutil.Lookup(ctx, client, spec.Name, spec.Vserver, zapi.Tunneled)
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
	path, _ := volumeutil.Attr(record, volumeutil.IDAttributes, "junction-path")
	active, _ := volumeutil.Attr(record, volumeutil.StateAttributes, "is-junction-active")

	return &Snapshot{
		Name:           name,
		JunctionPath:   path,
		JunctionActive: model.ParseTristate(active, "true", "false"),
	}, nil
}
