package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/shipyard/internal/core/domain"
)

func TestRegistryAddGet(t *testing.T) {
	r := New()

	art := domain.Artifact{ID: "a1", Tag: "app:latest"}
	r.Add(art)

	got, ok := r.Get("a1")
	require.True(t, ok)
	assert.Equal(t, art, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistryListNewestFirst(t *testing.T) {
	r := New()
	now := time.Now()
	r.Add(domain.Artifact{ID: "old", CreatedAt: now.Add(-time.Hour)})
	r.Add(domain.Artifact{ID: "new", CreatedAt: now})

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}
