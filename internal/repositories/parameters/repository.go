// Package parameters persists per-scene rendering parameter overrides.
package parameters

//go:generate mockgen -destination=mock/mock_repository.go -package=mockparameters -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/sceneview/internal/rendering"
)

// Repository stores one rendering parameter set per scene ID
type Repository interface {
	// Save stores p for sceneID, replacing any earlier value
	Save(ctx context.Context, sceneID string, p *rendering.Parameter) error

	// Get returns the stored parameter set for sceneID
	Get(ctx context.Context, sceneID string) (*rendering.Parameter, error)

	// Delete removes the parameter set for sceneID
	Delete(ctx context.Context, sceneID string) error

	// ListScenes returns the IDs of every scene with a stored parameter set, sorted
	ListScenes(ctx context.Context) ([]string, error)

	// LoadAll returns every stored parameter set keyed by scene ID
	LoadAll(ctx context.Context) (map[string]*rendering.Parameter, error)
}
