package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quickai/internal/domain"
)

const keyFreeUsage = "quickai:free_usage:%s"

// RedisCommands is the subset of redis.Cmdable the store issues.
// *redis.Client satisfies it.
type RedisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RedisStore keeps one integer key per identity. SETNX gives the
// initialize-if-absent guarantee and INCR the atomic charge.
type RedisStore struct {
	client RedisCommands
}

func NewRedisStore(client RedisCommands) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, id domain.Identity) (int, bool, error) {
	count, err := s.client.Get(ctx, key(id)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (s *RedisStore) InitializeIfAbsent(ctx context.Context, id domain.Identity) (int, error) {
	k := key(id)
	if err := s.client.SetNX(ctx, k, 0, 0).Err(); err != nil {
		return 0, err
	}
	count, err := s.client.Get(ctx, k).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

func (s *RedisStore) Increment(ctx context.Context, id domain.Identity) (int, error) {
	count, err := s.client.Incr(ctx, key(id)).Result()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *RedisStore) Reset(ctx context.Context, id domain.Identity) error {
	return s.client.Set(ctx, key(id), 0, 0).Err()
}

func key(id domain.Identity) string {
	return fmt.Sprintf(keyFreeUsage, id)
}

var _ Store = (*RedisStore)(nil)
