package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
)

type rootFlags struct {
	verbose bool
	dryRun  bool
	output  string
	conn    config.Connection
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{conn: config.DefaultConnection()}

	cmd := &cobra.Command{
		Use:           "cdotctl",
		Short:         "cdotctl reconciles volume clones and junctions on clustered storage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Report what would change without changing it")
	pf.BoolVar(&flags.dryRun, "check", false, "Alias for --dry-run")
	pf.StringVarP(&flags.output, "output", "o", outputAuto, "Outcome format: auto, json or text")

	pf.StringVar(&flags.conn.Hostname, "hostname", "", "Cluster management address (env "+config.EnvHostname+")")
	pf.StringVarP(&flags.conn.Username, "username", "u", "", "API user (env "+config.EnvUsername+")")
	pf.StringVarP(&flags.conn.Password, "password", "p", "", "API password (env "+config.EnvPassword+")")
	pf.BoolVar(&flags.conn.HTTPS, "https", true, "Use HTTPS")
	pf.IntVar(&flags.conn.Port, "port", 0, "Port; defaults to 443 or 80")
	pf.BoolVar(&flags.conn.ValidateCerts, "validate-certs", true, "Verify the cluster's TLS certificate")
	pf.StringVar(&flags.conn.APIVersion, "api-version", "", "ONTAPI version, e.g. 1.21")
	pf.IntVar(&flags.conn.Timeout, "timeout", 0, "Per-request timeout in seconds")

	cmd.AddCommand(newCloneCmd(flags, app))
	cmd.AddCommand(newMountCmd(flags, app))
	cmd.AddCommand(newApplyCmd(flags, app))
	cmd.AddCommand(newKindsCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// connectionFlagNames maps flag names onto the connection fields they set.
var connectionFlagNames = []string{
	"hostname", "username", "password", "https", "port", "validate-certs", "api-version", "timeout",
}

// overrideConnection copies every connection flag the user set explicitly
// onto base.
func overrideConnection(cmd *cobra.Command, flags *rootFlags, base *config.Connection) {
	for _, name := range connectionFlagNames {
		if !cmd.Flags().Changed(name) {
			continue
		}
		switch name {
		case "hostname":
			base.Hostname = flags.conn.Hostname
		case "username":
			base.Username = flags.conn.Username
		case "password":
			base.Password = flags.conn.Password
		case "https":
			base.HTTPS = flags.conn.HTTPS
		case "port":
			base.Port = flags.conn.Port
		case "validate-certs":
			base.ValidateCerts = flags.conn.ValidateCerts
		case "api-version":
			base.APIVersion = flags.conn.APIVersion
		case "timeout":
			base.Timeout = flags.conn.Timeout
		}
	}
}
