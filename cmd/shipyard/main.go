package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/melih/shipyard/internal/config"
	"github.com/melih/shipyard/internal/core/domain"
)

var (
	planFile string
	verbose  bool
)

func main() {
	root := &cobra.Command{
		Use:           "shipyard",
		Short:         "Package a small Python service into a reproducible container image",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVarP(&planFile, "plan", "f", config.DefaultFile, "build plan file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newBuildCmd(),
		newRunCmd(),
		newUpCmd(),
		newDevCmd(),
		newServeCmd(),
		newInspectCmd(),
		newExportCmd(),
		newVersionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// loadPlan resolves the effective build plan: an explicitly given file must
// exist, the default file is optional, and with neither present the built-in
// defaults describe the full sequence on their own.
func loadPlan(cmd *cobra.Command) (domain.Plan, error) {
	if cmd.Flags().Changed("plan") {
		return config.Load(planFile)
	}
	if _, err := os.Stat(planFile); err == nil {
		return config.Load(planFile)
	}
	return domain.DefaultPlan(), nil
}
