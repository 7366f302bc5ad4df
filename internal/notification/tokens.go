package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	id "neighnet/pkg/domain"
)

// TokenStore keeps the Expo push tokens registered for each user. A user
// may hold several (one per device).
type TokenStore interface {
	Register(ctx context.Context, userID id.UserID, token string) error
	Tokens(ctx context.Context, userID id.UserID) ([]string, error)
}

// MemoryTokenStore is the in-memory TokenStore for tests and dev setups.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[id.UserID]map[string]struct{}
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[id.UserID]map[string]struct{})}
}

func (s *MemoryTokenStore) Register(_ context.Context, userID id.UserID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.tokens[userID]
	if !ok {
		set = make(map[string]struct{})
		s.tokens[userID] = set
	}
	set[token] = struct{}{}
	return nil
}

func (s *MemoryTokenStore) Tokens(_ context.Context, userID id.UserID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for token := range s.tokens[userID] {
		out = append(out, token)
	}
	return out, nil
}

// RedisTokenStore keeps push tokens in a Redis set per user, shared across
// API instances.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func tokenKey(userID id.UserID) string {
	return "push-tokens:" + userID.String()
}

func (s *RedisTokenStore) Register(ctx context.Context, userID id.UserID, token string) error {
	if err := s.client.SAdd(ctx, tokenKey(userID), token).Err(); err != nil {
		return fmt.Errorf("register push token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Tokens(ctx context.Context, userID id.UserID) ([]string, error) {
	tokens, err := s.client.SMembers(ctx, tokenKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load push tokens: %w", err)
	}
	return tokens, nil
}
