package session

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in redis with a TTL; expiry is enforced by
// the server, so a restart of this process does not log users out.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Put(ctx context.Context, token string, userID uint64) error {
	key := keyPrefix + token
	if err := s.client.Set(ctx, key, strconv.FormatUint(userID, 10), s.ttl).Err(); err != nil {
		return errors.Wrap(err, "set session")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (uint64, bool, error) {
	key := keyPrefix + token
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "get session")
	}
	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, errors.Wrap(err, "parse session user id")
	}
	return userID, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return errors.Wrap(err, "delete session")
	}
	return nil
}
