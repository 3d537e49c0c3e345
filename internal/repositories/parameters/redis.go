package parameters

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/rendering"
)

const (
	// Key patterns
	parameterKeyPrefix = "parameters:"
	sceneIndexKey      = "parameters:scenes"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// redisRepository implements Repository using Redis. Each scene's parameters
// are a JSON string; a set indexes the scene IDs.
type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed parameter repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

func (r *redisRepository) key(sceneID string) string {
	return parameterKeyPrefix + sceneID
}

// Save stores p for sceneID
func (r *redisRepository) Save(ctx context.Context, sceneID string, p *rendering.Parameter) error {
	if err := validateSave(sceneID, p); err != nil {
		return err
	}

	jsonData, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal rendering parameters: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(sceneID), string(jsonData), 0)
	pipe.SAdd(ctx, sceneIndexKey, sceneID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to save rendering parameters").
			WithMeta("scene", sceneID)
	}

	return nil
}

// Get returns the stored parameters. Keys missing from the stored document
// keep their defaults.
func (r *redisRepository) Get(ctx context.Context, sceneID string) (*rendering.Parameter, error) {
	data, err := r.client.Get(ctx, r.key(sceneID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("rendering parameters for scene %q", sceneID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get rendering parameters").
			WithMeta("scene", sceneID)
	}

	p := rendering.Defaults()
	if err := json.Unmarshal([]byte(data), p); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to unmarshal rendering parameters").
			WithMeta("scene", sceneID)
	}

	return p, nil
}

// Delete removes the parameters and the index entry
func (r *redisRepository) Delete(ctx context.Context, sceneID string) error {
	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, r.key(sceneID))
	pipe.SRem(ctx, sceneIndexKey, sceneID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete rendering parameters").
			WithMeta("scene", sceneID)
	}

	if del.Val() == 0 {
		return errors.NotFoundf("rendering parameters for scene %q", sceneID)
	}
	return nil
}

// ListScenes returns the indexed scene IDs, sorted
func (r *redisRepository) ListScenes(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, sceneIndexKey).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list scenes")
	}

	slices.Sort(ids)
	return ids, nil
}

// LoadAll fetches every indexed scene concurrently. Index entries whose
// document has disappeared are skipped.
func (r *redisRepository) LoadAll(ctx context.Context) (map[string]*rendering.Parameter, error) {
	ids, err := r.ListScenes(ctx)
	if err != nil {
		return nil, err
	}

	loaded := make([]*rendering.Parameter, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			p, err := r.Get(ctx, id)
			if err != nil {
				if errors.IsNotFound(err) {
					return nil
				}
				return errors.Wrapf(err, "failed to load scene %s", id)
			}
			loaded[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*rendering.Parameter, len(ids))
	for i, id := range ids {
		if loaded[i] != nil {
			out[id] = loaded[i]
		}
	}
	return out, nil
}
