package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/melih/shipyard/internal/adapters/builder"
	"github.com/melih/shipyard/internal/adapters/docker"
	shiphttp "github.com/melih/shipyard/internal/adapters/http"
	"github.com/melih/shipyard/internal/core/registry"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the build-and-launch HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Initialize Adapters (Infrastructure)
			dockerAdapter, err := docker.NewAdapter()
			if err != nil {
				return err
			}
			imageBuilder, err := builder.NewBuilder()
			if err != nil {
				return err
			}
			artifacts := registry.New()

			// 2. Initialize HTTP Handlers (Interface Adapters)
			containerHandler := shiphttp.NewContainerHandler(dockerAdapter, imageBuilder, artifacts)
			proxyHandler := shiphttp.NewProxyHandler(dockerAdapter)

			// 3. Setup Framework (Fiber)
			app := fiber.New()

			// Subdomain proxy runs before the API routes.
			app.Use(proxyHandler.ProxyRequest)

			// 4. Define Routes
			api := app.Group("/api")
			v1 := api.Group("/v1")

			builds := v1.Group("/builds")
			builds.Post("/", containerHandler.TriggerBuild)

			arts := v1.Group("/artifacts")
			arts.Get("/", containerHandler.ListArtifacts)
			arts.Get("/:id", containerHandler.GetArtifact)

			containers := v1.Group("/containers")
			containers.Get("/", containerHandler.ListContainers)
			containers.Post("/", containerHandler.StartContainer)
			containers.Delete("/:id", containerHandler.StopContainer)
			containers.Get("/:id/logs", containerHandler.GetContainerLogs)

			// 5. Start Server
			logrus.WithField("addr", addr).Info("server starting")
			return app.Listen(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3000", "listen address")
	return cmd
}
