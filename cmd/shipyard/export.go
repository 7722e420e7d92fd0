package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/melih/shipyard/internal/adapters/builder"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Save a built image as a tar archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := builder.NewBuilder()
			if err != nil {
				return err
			}
			if err := b.ExportArchive(cmd.Context(), args[0], out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "image.tar", "output archive path")
	return cmd
}
