package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/melih/shipyard/internal/adapters/docker"
	"github.com/melih/shipyard/internal/core/domain"
)

// launchArtifact derives a launchable descriptor from a plan whose image is
// already in the daemon. The environment set rides on the descriptor.
func launchArtifact(plan domain.Plan) domain.Artifact {
	return domain.Artifact{
		Tag:        plan.Tag,
		BaseImage:  plan.BaseImage,
		Env:        plan.Env,
		Workdir:    plan.Workdir,
		Port:       plan.Port,
		Entrypoint: plan.Entrypoint,
	}
}

func newRunCmd() *cobra.Command {
	var pf planFlags
	var name string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Instantiate a previously built artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(cmd)
			if err != nil {
				return err
			}
			plan = pf.apply(plan)

			runtime, err := docker.NewAdapter()
			if err != nil {
				return err
			}
			id, err := runtime.StartContainer(cmd.Context(), launchArtifact(plan), name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Started %s from %s\n", id[:12], plan.Tag)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "container name")
	return cmd
}
