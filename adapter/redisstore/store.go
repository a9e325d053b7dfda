// Package redisstore implements adapter.Adapter on top of Redis.
//
// Records are stored as the flat JSON form of identity.User under
// "<prefix>:u:<id>". A set at "<prefix>:users" indexes live ids for GetAll, and
// "<prefix>:sb:<id>" holds the single-session binding.
package redisstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/MrEthical07/goGuard/adapter"
	"github.com/MrEthical07/goGuard/identity"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every transport or server error.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrCorruptRecord is returned when a stored payload cannot be decoded.
var ErrCorruptRecord = errors.New("redis record corrupt")

const minTTL = time.Second

// bindSessionScript sets KEYS[2] to ARGV[1] with the remaining TTL of
// KEYS[1]. A missing record falls back to ARGV[2] milliseconds; a record
// without expiry yields a binding without expiry.
const bindSessionScript = `
local ttl = redis.call("PTTL", KEYS[1])
if ttl == -2 then
  ttl = tonumber(ARGV[2])
end
if ttl > 0 then
  redis.call("SET", KEYS[2], ARGV[1], "PX", ttl)
else
  redis.call("SET", KEYS[2], ARGV[1])
end
return ttl
`

var bindSessionLua = redis.NewScript(bindSessionScript)

var (
	_ adapter.Adapter       = (*Store)(nil)
	_ adapter.SessionBinder = (*Store)(nil)
)

// Store is a Redis-backed adapter with optional expiry and TTL jitter.
type Store struct {
	redis         redis.UniversalClient
	prefix        string
	ttl           time.Duration
	jitterEnabled bool
	jitterRange   time.Duration
}

// NewStore creates a [Store] backed by the given Redis client. prefix sets the
// key namespace. A ttl <= 0 stores records without expiry; otherwise records
// expire ttl after their last Set or ResetExpiration, spread by up to
// ±jitterRange when jitterEnabled is set.
func NewStore(
	client redis.UniversalClient,
	prefix string,
	ttl time.Duration,
	jitterEnabled bool,
	jitterRange time.Duration,
) *Store {
	if prefix == "" {
		prefix = "gg"
	}
	return &Store{
		redis:         client,
		prefix:        prefix,
		ttl:           ttl,
		jitterEnabled: jitterEnabled,
		jitterRange:   jitterRange,
	}
}

func (s *Store) userKey(id identity.UserID) string {
	return s.prefix + ":u:" + string(id)
}

func (s *Store) indexKey() string {
	return s.prefix + ":users"
}

func (s *Store) bindingKey(id identity.UserID) string {
	return s.prefix + ":sb:" + string(id)
}

// Get returns the stored user or (nil, nil) when the key is absent.
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, id identity.UserID) (*identity.User, error) {
	if id == "" {
		return nil, adapter.ErrEmptyUserID
	}

	data, err := s.redis.Get(ctx, s.userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return decode(id, data)
}

// GetAll returns every user listed in the id index. Index entries whose
// record has expired are pruned as a side effect.
//
//	Performance: 1 SMEMBERS + 1 pipelined GET batch.
func (s *Store) GetAll(ctx context.Context) ([]*identity.User, error) {
	ids, err := s.redis.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(ids) == 0 {
		return []*identity.User{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, s.userKey(identity.UserID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	users := make([]*identity.User, 0, len(ids))
	var stale []any
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				stale = append(stale, ids[i])
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		u, err := decode(identity.UserID(ids[i]), data)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if len(stale) > 0 {
		if err := s.redis.SRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return users, nil
}

// Has reports whether the record key exists.
func (s *Store) Has(ctx context.Context, id identity.UserID) (bool, error) {
	if id == "" {
		return false, adapter.ErrEmptyUserID
	}
	n, err := s.redis.Exists(ctx, s.userKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n == 1, nil
}

// Set replaces the record for id and adds id to the index.
//
//	Performance: 1 MULTI/EXEC (SET + SADD).
func (s *Store) Set(ctx context.Context, id identity.UserID, user *identity.User) (*identity.User, error) {
	stored, err := adapter.PrepareUser(id, user)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode user %s: %w", id, err)
	}

	ttl, err := s.nextTTL()
	if err != nil {
		return nil, err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.userKey(id), data, ttl)
		pipe.SAdd(ctx, s.indexKey(), string(id))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return stored, nil
}

// Remove deletes the record, its binding and its index entry. Removing a
// missing id succeeds.
func (s *Store) Remove(ctx context.Context, id identity.UserID) error {
	if id == "" {
		return adapter.ErrEmptyUserID
	}

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.userKey(id), s.bindingKey(id))
		pipe.SRem(ctx, s.indexKey(), string(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// ResetExpiration re-applies the TTL to the record and its binding. It reports
// false when the record key no longer exists. Without a TTL it reports true.
func (s *Store) ResetExpiration(ctx context.Context, id identity.UserID) (bool, error) {
	if s.ttl <= 0 {
		return true, nil
	}
	if id == "" {
		return false, adapter.ErrEmptyUserID
	}

	ttl, err := s.nextTTL()
	if err != nil {
		return false, err
	}

	var userCmd *redis.BoolCmd
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		userCmd = pipe.Expire(ctx, s.userKey(id), ttl)
		pipe.Expire(ctx, s.bindingKey(id), ttl)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return userCmd.Val(), nil
}

// BindSession records sessionID as the current session for id. The binding
// copies the remaining TTL of the user record so both keys expire together.
//
//	Performance: 1 EVALSHA (PTTL + SET).
func (s *Store) BindSession(ctx context.Context, id identity.UserID, sessionID string) error {
	if id == "" {
		return adapter.ErrEmptyUserID
	}

	keys := []string{s.userKey(id), s.bindingKey(id)}
	if err := bindSessionLua.Run(ctx, s.redis, keys, sessionID, s.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// SessionBinding returns the session bound to id.
func (s *Store) SessionBinding(ctx context.Context, id identity.UserID) (string, bool, error) {
	sid, err := s.redis.Get(ctx, s.bindingKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return sid, true, nil
}

// Count returns the number of ids in the index. Expired records are only
// pruned by GetAll, so the value is an upper bound.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.redis.SCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return int(n), nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

func decode(id identity.UserID, data []byte) (*identity.User, error) {
	var u identity.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, id, err)
	}
	u.ID = id
	return &u, nil
}

func (s *Store) nextTTL() (time.Duration, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	next := s.ttl
	if s.jitterEnabled && s.jitterRange > 0 {
		jitter, err := randomJitter(s.jitterRange)
		if err != nil {
			return 0, err
		}
		next += jitter
	}
	if next < minTTL {
		next = minTTL
	}
	return next, nil
}

func randomJitter(jitterRange time.Duration) (time.Duration, error) {
	if jitterRange <= 0 {
		return 0, nil
	}

	max := jitterRange.Nanoseconds()
	if max > (math.MaxInt64-1)/2 {
		return 0, errors.New("jitter range too large")
	}
	span := max*2 + 1

	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return 0, err
	}

	return time.Duration(n.Int64() - max), nil
}
