package builder

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"

	"github.com/melih/shipyard/internal/core/domain"
)

// stageSource materializes the build context. A local directory is used in
// place; a repo URL is shallow-cloned into a temp dir. The returned cleanup
// removes the clone once the build is done.
func stageSource(ctx context.Context, plan domain.Plan) (string, func(), error) {
	if plan.RepoURL == "" {
		info, err := os.Stat(plan.Context)
		if err != nil || !info.IsDir() {
			return "", nil, fmt.Errorf("%w: build context %q", ErrMissingBuildFile, plan.Context)
		}
		return plan.Context, func() {}, nil
	}

	tmpDir, err := os.MkdirTemp("", "shipyard-build-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	logrus.WithField("repo", plan.RepoURL).Info("cloning build context")
	_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:      plan.RepoURL,
		Progress: os.Stdout,
		Depth:    1, // Shallow clone for speed
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to clone repo: %w", err)
	}
	return tmpDir, cleanup, nil
}
