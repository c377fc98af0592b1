package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Store persists the session-local slice of feed state: the locally authored
// post collection, the soft-delete set, the session identity, and the cloud
// outbox. Writes are always full-collection replace-and-persist; the engine
// owns the in-memory truth and this store is its durable shadow.
type Store struct {
	client *redis.Client
}

// NewStore creates a new cache store over an established client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// SaveLocalPosts replaces the persisted local post collection.
func (s *Store) SaveLocalPosts(ctx context.Context, posts []*domain.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshal local posts: %w", err)
	}
	if err := s.client.Set(ctx, KeyLocalPosts, data, 0).Err(); err != nil {
		return fmt.Errorf("save local posts: %w", err)
	}
	return nil
}

// LoadLocalPosts reads the persisted local collection back as untyped
// records. Anything read from persistence is untrusted and goes through the
// sanitizer before entering the engine.
func (s *Store) LoadLocalPosts(ctx context.Context) ([]*domain.RawPost, error) {
	data, err := s.client.Get(ctx, KeyLocalPosts).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load local posts: %w", err)
	}
	var raw []*domain.RawPost
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode local posts: %w", err)
	}
	return raw, nil
}

// ClearLocalPosts drops the persisted local collection.
func (s *Store) ClearLocalPosts(ctx context.Context) error {
	if err := s.client.Del(ctx, KeyLocalPosts).Err(); err != nil {
		return fmt.Errorf("clear local posts: %w", err)
	}
	return nil
}

// AddDeletedID appends a post id to the persisted soft-delete set. The set
// is append-only for the lifetime of the archive; it is never pruned.
func (s *Store) AddDeletedID(ctx context.Context, id string) error {
	if err := s.client.SAdd(ctx, KeyDeletedIDs, id).Err(); err != nil {
		return fmt.Errorf("add deleted id: %w", err)
	}
	return nil
}

// LoadDeletedIDs reads the full soft-delete set.
func (s *Store) LoadDeletedIDs(ctx context.Context) (map[string]struct{}, error) {
	ids, err := s.client.SMembers(ctx, KeyDeletedIDs).Result()
	if err != nil {
		return nil, fmt.Errorf("load deleted ids: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
