package ports

import (
	"context"
	"io"

	"github.com/melih/shipyard/internal/core/domain"
)

// ContainerService defines the core operations for launching artifacts.
// This interface allows us to switch between Docker, Podman, or Kubernetes
// without changing the business logic.
type ContainerService interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
	// StartContainer instantiates an artifact: the artifact's environment
	// set is applied to the process and its declared port is published.
	StartContainer(ctx context.Context, art domain.Artifact, name string) (string, error)
	StopContainer(ctx context.Context, id string) error
	GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
}
