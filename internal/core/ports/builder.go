package ports

import (
	"context"

	"github.com/melih/shipyard/internal/core/domain"
)

// BuilderService defines operations for building container images from source code.
type BuilderService interface {
	// BuildImage runs the full provisioning sequence for a plan and returns
	// the descriptor of the produced image. Any failed step aborts the
	// build; no artifact is returned for a failed build.
	BuildImage(ctx context.Context, plan domain.Plan) (domain.Artifact, error)
}
