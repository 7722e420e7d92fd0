package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/melih/shipyard/internal/adapters/builder"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive.tar>",
		Short: "Print the launch metadata recorded on an exported image archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := builder.InspectArchive(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(desc)
		},
	}
}
