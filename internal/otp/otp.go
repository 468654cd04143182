// Package otp stores short-lived one-time codes for the login-by-code and
// OAuth state flows.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is a stored code with its issue time. Expiry is judged against
// IssuedAt by the caller so Redis and in-process stores behave the same.
type Entry struct {
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store holds issued codes by key. Put overwrites any code already held
// under the key. The ttl given to a store bounds retention only; it must
// exceed the validity window the caller enforces, or a stale code vanishes
// before verification can report it as expired.
type Store interface {
	Put(ctx context.Context, key, code string) error
	Get(ctx context.Context, key string) (Entry, bool, error)
	Delete(ctx context.Context, key string) error
}

// NewCode returns a random six-digit code with leading zeros preserved.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	digits := []byte("000000")
	v := n.Int64()
	for i := 5; i >= 0; i-- {
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return string(digits), nil
}

type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, key, code string) error {
	data, err := json.Marshal(Entry{Code: code, IssuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var entry Entry
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// MemoryStore keeps codes in process memory. It serves deployments without
// Redis and the tests.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]Entry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
}

func (s *MemoryStore) Put(_ context.Context, key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Code: code, IssuedAt: s.now().UTC()}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	if s.now().Sub(entry.IssuedAt) > s.ttl {
		delete(s.entries, key)
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
