package registry

import (
	"sort"
	"sync"

	"github.com/melih/shipyard/internal/core/domain"
)

// Registry is an in-memory index of produced artifacts. Nothing is persisted
// beyond the images themselves; restarting the server forgets descriptors,
// not images.
type Registry struct {
	mu    sync.RWMutex
	items map[string]domain.Artifact
}

func New() *Registry {
	return &Registry{items: make(map[string]domain.Artifact)}
}

func (r *Registry) Add(art domain.Artifact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[art.ID] = art
}

func (r *Registry) Get(id string) (domain.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	art, ok := r.items[id]
	return art, ok
}

// List returns artifacts newest first.
func (r *Registry) List() []domain.Artifact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Artifact, 0, len(r.items))
	for _, art := range r.items {
		out = append(out, art)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
