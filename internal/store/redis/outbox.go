package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/redis/go-redis/v9"
)

// OutboxRecord is a locally authored post waiting to be mirrored to the
// cloud store, plus its retry bookkeeping.
type OutboxRecord struct {
	Post       *domain.Post `json:"post"`
	Attempts   int          `json:"attempts"`
	EnqueuedAt time.Time    `json:"enqueuedAt"`
}

// EnqueueOutbox appends a mirror record to the tail of the outbox.
func (s *Store) EnqueueOutbox(ctx context.Context, rec OutboxRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal outbox record: %w", err)
	}
	if err := s.client.RPush(ctx, KeyOutbox, data).Err(); err != nil {
		return fmt.Errorf("enqueue outbox: %w", err)
	}
	return nil
}

// DequeueOutbox pops the head of the outbox. Returns nil without error when
// the outbox is empty. A record that fails to decode is dropped: requeueing
// it would wedge the flusher forever.
func (s *Store) DequeueOutbox(ctx context.Context) (*OutboxRecord, error) {
	data, err := s.client.LPop(ctx, KeyOutbox).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue outbox: %w", err)
	}
	var rec OutboxRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode outbox record: %w", err)
	}
	return &rec, nil
}

// OutboxLen reports the number of pending mirror records.
func (s *Store) OutboxLen(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, KeyOutbox).Result()
	if err != nil {
		return 0, fmt.Errorf("outbox length: %w", err)
	}
	return n, nil
}

// ClearOutbox drops every pending mirror record.
func (s *Store) ClearOutbox(ctx context.Context) error {
	if err := s.client.Del(ctx, KeyOutbox).Err(); err != nil {
		return fmt.Errorf("clear outbox: %w", err)
	}
	return nil
}
