package builder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/shipyard/internal/core/domain"
)

func TestStageSourceLocalDir(t *testing.T) {
	dir := t.TempDir()
	plan := domain.DefaultPlan()
	plan.Context = dir

	got, cleanup, err := stageSource(context.Background(), plan)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, dir, got)
}

func TestStageSourceMissingDir(t *testing.T) {
	plan := domain.DefaultPlan()
	plan.Context = filepath.Join(t.TempDir(), "does-not-exist")

	_, _, err := stageSource(context.Background(), plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBuildFile)
}
