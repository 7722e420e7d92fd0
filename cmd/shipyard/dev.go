package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/melih/shipyard/internal/adapters/builder"
	"github.com/melih/shipyard/internal/adapters/docker"
	"github.com/melih/shipyard/internal/watch"
)

// dev loops build-launch-wait: every change under the build context stops the
// running instance and rebuilds. The dependency layer stays cached as long as
// the manifest is untouched, so source edits rebuild fast.
func newDevCmd() *cobra.Command {
	var pf planFlags
	var name string
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Rebuild and relaunch on every source change",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(cmd)
			if err != nil {
				return err
			}
			plan = pf.apply(plan)
			if plan.RepoURL != "" {
				return fmt.Errorf("dev mode needs a local build context, not a repo URL")
			}

			b, err := builder.NewBuilder()
			if err != nil {
				return err
			}
			runtime, err := docker.NewAdapter()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			for {
				art, err := b.BuildImage(ctx, plan)
				if err != nil {
					return err
				}
				id, err := runtime.StartContainer(ctx, art, name)
				if err != nil {
					return err
				}
				logrus.WithField("container", id[:12]).Info("running, watching for changes")

				wctx, stop, err := watch.UntilChange(ctx, plan.Context)
				if err != nil {
					runtime.StopContainer(context.Background(), id)
					return err
				}
				<-wctx.Done()
				stop()

				if err := runtime.StopContainer(context.Background(), id); err != nil {
					logrus.WithError(err).Warn("stopping previous instance")
				}
				if ctx.Err() != nil {
					return nil
				}
				if cause := context.Cause(wctx); cause != nil && !errors.Is(cause, context.Canceled) {
					logrus.WithField("reason", cause.Error()).Info("rebuilding")
				}
			}
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "container name")
	return cmd
}
