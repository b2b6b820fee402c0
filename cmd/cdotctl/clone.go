package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
)

type cloneOptions struct {
	vserver      string
	state        string
	parentVolume string
	snapshotName string
	online       bool
}

func newCloneCmd(root *rootFlags, app *AppContext) *cobra.Command {
	opts := &cloneOptions{}

	cmd := &cobra.Command{
		Use:   "clone NAME",
		Short: "Create, destroy or change the online state of a volume clone",
		Example: `  cdotctl clone vol1_clone --vserver svm1 --parent-volume vol1 --snapshot daily.0
  cdotctl clone vol1_clone --vserver svm1 --online=false
  cdotctl clone vol1_clone --vserver svm1 --state absent --check`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := config.Resource{
				Kind:         config.KindClone,
				Name:         args[0],
				Vserver:      opts.vserver,
				State:        opts.state,
				ParentVolume: opts.parentVolume,
				SnapshotName: opts.snapshotName,
			}
			if cmd.Flags().Changed("online") {
				online := opts.online
				res.Online = &online
			}
			return runDocument(cmd, root, app, flagDocument(root, res))
		},
	}

	cmd.Flags().StringVar(&opts.vserver, "vserver", "", "Vserver that owns the clone")
	cmd.Flags().StringVar(&opts.state, "state", config.StatePresent, "Desired state: present or absent")
	cmd.Flags().StringVar(&opts.parentVolume, "parent-volume", "", "Volume to clone from (required when present)")
	cmd.Flags().StringVar(&opts.snapshotName, "snapshot", "", "Parent snapshot to clone from")
	cmd.Flags().BoolVar(&opts.online, "online", true, "Whether the clone should be online")
	cmd.MarkFlagRequired("vserver") //nolint:errcheck

	return cmd
}

// flagDocument assembles a document from the root connection flags.
func flagDocument(root *rootFlags, res config.Resource) *config.Document {
	return &config.Document{Connection: root.conn, Resource: res}
}
