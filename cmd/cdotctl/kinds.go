package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newKindsCmd(app *AppContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the resource kinds cdotctl can reconcile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := app.Registry.List()

			if jsonOutput {
				type kindJSON struct {
					Name        string   `json:"name"`
					Version     string   `json:"version"`
					Description string   `json:"description"`
					States      []string `json:"states"`
				}
				payload := make([]kindJSON, 0, len(kinds))
				for _, k := range kinds {
					payload = append(payload, kindJSON{Name: k.Name, Version: k.Version, Description: k.Description, States: k.States})
				}
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(payload)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "KIND\tVERSION\tSTATES\tDESCRIPTION")
			for _, k := range kinds {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", k.Name, k.Version, strings.Join(k.States, ", "), k.Description)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
