package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
)

type applyOptions struct {
	configPath string
}

func newApplyCmd(root *rootFlags, app *AppContext) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the resource declared in a YAML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(opts.configPath); err != nil {
				return err
			}

			doc, err := config.ReadDocument(opts.configPath)
			if err != nil {
				return err
			}
			overrideConnection(cmd, root, &doc.Connection)

			return runDocument(cmd, root, app, doc)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to the resource document")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func validateConfigPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config file is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("config file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", abs)
	}

	return nil
}
