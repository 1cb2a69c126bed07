package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.getCount(ctx, key)
	return count > 0, err
}

func (s *Store) getCount(ctx context.Context, key string) (int64, error) {
	return s.client.Exists(ctx, key).Result()
}

// SetWithMember writes key and adds member to the set at setKey in one
// MULTI/EXEC so the index never points at a missing value.
func (s *Store) SetWithMember(ctx context.Context, key string, value interface{}, setKey string, member interface{}) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, 0)
		pipe.SAdd(ctx, setKey, member)
		return nil
	})
	return err
}

func (s *Store) SetMembers(ctx context.Context, setKey string) ([]string, error) {
	return s.client.SMembers(ctx, setKey).Result()
}

func (s *Store) SetRemove(ctx context.Context, setKey string, members ...interface{}) error {
	return s.client.SRem(ctx, setKey, members...).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
