package lock

import (
	"context"
	"time"

	"rental-storefront/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while the caller still owns it. A plain
// DEL could drop a lock that was re-acquired by someone else after our TTL
// lapsed.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore is the production lock backend: ephemeral key/TTL pairs in
// redis, never in primary storage.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, key, ownerID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, ownerID, ttl).Result()
}

func (s *RedisStore) DeleteIfOwner(ctx context.Context, key, ownerID string) (bool, error) {
	deleted, err := releaseScript.Run(ctx, s.client, []string{key}, ownerID).Int()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
