package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/melih/shipyard/internal/adapters/builder"
	"github.com/melih/shipyard/internal/adapters/docker"
)

func newUpCmd() *cobra.Command {
	var pf planFlags
	var name string
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Build the artifact, then launch it",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(cmd)
			if err != nil {
				return err
			}
			plan = pf.apply(plan)

			b, err := builder.NewBuilder()
			if err != nil {
				return err
			}
			art, err := b.BuildImage(cmd.Context(), plan)
			if err != nil {
				return err
			}

			runtime, err := docker.NewAdapter()
			if err != nil {
				return err
			}
			id, err := runtime.StartContainer(cmd.Context(), art, name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Built %s, started %s\n", art.Tag, id[:12])
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "container name")
	return cmd
}
