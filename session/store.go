package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level Redis failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

const consumeSessionScript = `
local existed = redis.call("EXISTS", KEYS[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
end
return existed
`

var consumeSessionLua = redis.NewScript(consumeSessionScript)

const bumpVersionScript = `
local version = redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return version
`

var bumpVersionLua = redis.NewScript(bumpVersionScript)

// Store is a Redis-backed TTL store for refresh-session markers and
// revocation version counters.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a [Store] backed by the given Redis client. prefix sets
// the Redis key namespace.
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "ac"
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *Store) refreshKey(userID, tokenID string) string {
	return s.prefix + ":rt:" + userID + ":" + tokenID
}

func (s *Store) versionKey(userID string) string {
	return s.prefix + ":ver:" + userID
}

// SaveRefreshSession records an issued, unconsumed refresh token. The value
// is an opaque marker; existence of the key is what matters.
//
//	Performance: 1 Redis SET.
func (s *Store) SaveRefreshSession(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.refreshKey(userID, tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// ConsumeRefreshSession atomically checks for and deletes the session
// marker. It returns true exactly once per issued token: concurrent callers
// presenting the same (userID, tokenID) observe at most one true result.
//
//	Performance: 1 Lua EVALSHA (atomic check-and-delete).
func (s *Store) ConsumeRefreshSession(ctx context.Context, userID, tokenID string) (bool, error) {
	existed, err := consumeSessionLua.Run(ctx, s.redis, []string{s.refreshKey(userID, tokenID)}).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return existed == 1, nil
}

// DeleteRefreshSession removes a session marker without reporting whether it
// existed. Deleting an absent key is not an error.
//
//	Performance: 1 Redis DEL.
func (s *Store) DeleteRefreshSession(ctx context.Context, userID, tokenID string) error {
	if err := s.redis.Del(ctx, s.refreshKey(userID, tokenID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Version returns the user's current revocation version. A missing counter
// reads as 0, the version every user implicitly starts at.
//
//	Performance: 1 Redis GET.
func (s *Store) Version(ctx context.Context, userID string) (int64, error) {
	version, err := s.redis.Get(ctx, s.versionKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if version < 0 {
		return 0, nil
	}
	return version, nil
}

// BumpVersion increments the revocation version and refreshes its TTL in
// one atomic step, invalidating every refresh token minted under the old
// version on its next use.
//
//	Performance: 1 Lua EVALSHA (INCR + PEXPIRE).
func (s *Store) BumpVersion(ctx context.Context, userID string, ttl time.Duration) (int64, error) {
	version, err := bumpVersionLua.Run(
		ctx,
		s.redis,
		[]string{s.versionKey(userID)},
		ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return version, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
