package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
)

type mountOptions struct {
	vserver      string
	state        string
	junctionPath string
}

func newMountCmd(root *rootFlags, app *AppContext) *cobra.Command {
	opts := &mountOptions{}

	cmd := &cobra.Command{
		Use:   "mount NAME",
		Short: "Mount, unmount or re-activate the junction of a volume",
		Example: `  cdotctl mount vol1 --vserver svm1
  cdotctl mount vol1 --vserver svm1 --junction-path /exports/vol1
  cdotctl mount vol1 --vserver svm1 --state unmounted`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := config.Resource{
				Kind:         config.KindMount,
				Name:         args[0],
				Vserver:      opts.vserver,
				State:        opts.state,
				JunctionPath: opts.junctionPath,
			}
			return runDocument(cmd, root, app, flagDocument(root, res))
		},
	}

	cmd.Flags().StringVar(&opts.vserver, "vserver", "", "Vserver that owns the volume")
	cmd.Flags().StringVar(&opts.state, "state", config.StateMounted, "Desired state: mounted or unmounted")
	cmd.Flags().StringVar(&opts.junctionPath, "junction-path", "", "Junction path; defaults to /NAME")
	cmd.MarkFlagRequired("vserver") //nolint:errcheck

	return cmd
}
