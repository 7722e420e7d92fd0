package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/melih/shipyard/internal/adapters/builder"
	"github.com/melih/shipyard/internal/core/domain"
)

type planFlags struct {
	tag        string
	contextDir string
	repo       string
	baseImage  string
	port       int
}

func (pf *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&pf.tag, "tag", "t", "", "image tag for the produced artifact")
	cmd.Flags().StringVar(&pf.contextDir, "context", "", "build context directory")
	cmd.Flags().StringVar(&pf.repo, "repo", "", "git repository to clone as the build context")
	cmd.Flags().StringVar(&pf.baseImage, "base-image", "", "base runtime image reference")
	cmd.Flags().IntVarP(&pf.port, "port", "p", 0, "declared listening port")
}

func (pf *planFlags) apply(plan domain.Plan) domain.Plan {
	if pf.tag != "" {
		plan.Tag = pf.tag
	}
	if pf.contextDir != "" {
		plan.Context = pf.contextDir
	}
	if pf.repo != "" {
		plan.RepoURL = pf.repo
	}
	if pf.baseImage != "" {
		plan.BaseImage = pf.baseImage
	}
	if pf.port != 0 {
		plan.Port = pf.port
	}
	return plan
}

func newBuildCmd() *cobra.Command {
	var pf planFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the provisioning sequence and produce an image artifact",
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

			fmt.Fprintf(cmd.OutOrStdout(), "Built %s (%s)\n", art.Tag, art.ImageID)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}
