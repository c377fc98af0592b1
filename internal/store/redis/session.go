package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SaveSession persists the current session identity.
func (s *Store) SaveSession(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, KeySession, data, 0).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession reads the persisted session identity. Returns nil without
// error when no session is stored.
func (s *Store) LoadSession(ctx context.Context) (*domain.User, error) {
	data, err := s.client.Get(ctx, KeySession).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &user, nil
}

// ClearSession removes the persisted session identity.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.client.Del(ctx, KeySession).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
