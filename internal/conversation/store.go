package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/debot/internal/domain"
)

// DefaultTTL is how long an idle conversation is kept.
const DefaultTTL = time.Hour

// Store keeps conversation windows keyed by conversation ID.
type Store interface {
	// Get returns the stored messages, or false if the conversation is unknown.
	Get(ctx context.Context, id string) ([]domain.Message, bool, error)
	Save(ctx context.Context, id string, msgs []domain.Message) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps windows in process memory and drops idle ones after a TTL.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a MemoryStore. Expired conversations are purged
// every ttl/6.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: cache.New(ttl, ttl/6)}
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]domain.Message, bool, error) {
	if x, found := s.cache.Get(id); found {
		return append([]domain.Message(nil), x.([]domain.Message)...), true, nil
	}
	return nil, false, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, msgs []domain.Message) error {
	s.cache.Set(id, append([]domain.Message(nil), msgs...), cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Count returns the number of live conversations.
func (s *MemoryStore) Count() int { return s.cache.ItemCount() }

// RedisStore keeps windows as JSON in Redis so several processes can share
// conversations.
type RedisStore struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "debot:conversation:"}
}

// NewRedisClient parses a redis:// URL, falling back to treating it as a
// bare host:port.
func NewRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	return redis.NewClient(opt)
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Get(ctx context.Context, id string) ([]domain.Message, bool, error) {
	data, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading conversation: %w", err)
	}
	msgs, err := decodeMessages(data)
	if err != nil {
		return nil, false, err
	}
	return msgs, true, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, msgs []domain.Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encoding conversation: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}

func decodeMessages(data []byte) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decoding conversation: %w", err)
	}
	if len(msgs) == 0 || msgs[0].Role != domain.RoleSystem {
		return nil, fmt.Errorf("decoding conversation: missing pinned system message")
	}
	return msgs, nil
}
