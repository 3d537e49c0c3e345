package parameters

import (
	"context"
	"slices"
	"sync"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/rendering"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu     sync.RWMutex
	params map[string]*rendering.Parameter
}

// NewInMemoryRepository creates a new in-memory parameter repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		params: make(map[string]*rendering.Parameter),
	}
}

// Save stores a copy of p
func (r *inMemoryRepository) Save(ctx context.Context, sceneID string, p *rendering.Parameter) error {
	if err := validateSave(sceneID, p); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to avoid external modifications
	r.params[sceneID] = p.Clone()
	return nil
}

// Get returns a copy of the stored parameter set
func (r *inMemoryRepository) Get(ctx context.Context, sceneID string) (*rendering.Parameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.params[sceneID]
	if !exists {
		return nil, errors.NotFoundf("rendering parameters for scene %q", sceneID)
	}
	return p.Clone(), nil
}

// Delete removes the parameter set for sceneID
func (r *inMemoryRepository) Delete(ctx context.Context, sceneID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.params[sceneID]; !exists {
		return errors.NotFoundf("rendering parameters for scene %q", sceneID)
	}
	delete(r.params, sceneID)
	return nil
}

// ListScenes returns the stored scene IDs in sorted order
func (r *inMemoryRepository) ListScenes(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.params))
	for id := range r.params {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// LoadAll returns copies of every stored parameter set
func (r *inMemoryRepository) LoadAll(ctx context.Context) (map[string]*rendering.Parameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*rendering.Parameter, len(r.params))
	for id, p := range r.params {
		out[id] = p.Clone()
	}
	return out, nil
}

func validateSave(sceneID string, p *rendering.Parameter) error {
	if sceneID == "" {
		return errors.InvalidArgument("scene ID cannot be empty")
	}
	if p == nil {
		return errors.InvalidArgument("rendering parameters cannot be nil")
	}
	return p.Validate()
}
