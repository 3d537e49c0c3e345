package parameters

import (
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/sceneview/internal/errors"
)

// NewRedis creates a new Redis-backed parameter repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client: client,
	})
}

// NewRedisFromURL parses a redis:// URL and returns a repository and its client.
// The caller closes the client.
func NewRedisFromURL(url string) (Repository, redis.UniversalClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid REDIS_URL")
	}

	client := redis.NewClient(opts)
	return NewRedis(client), client, nil
}
