package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/logger"
	redisstore "github.com/ravetok/nexus/internal/store/redis"
)

type memQueue struct {
	records []redisstore.OutboxRecord
}

func (q *memQueue) DequeueOutbox(context.Context) (*redisstore.OutboxRecord, error) {
	if len(q.records) == 0 {
		return nil, nil
	}
	rec := q.records[0]
	q.records = q.records[1:]
	return &rec, nil
}

func (q *memQueue) EnqueueOutbox(_ context.Context, rec redisstore.OutboxRecord) error {
	q.records = append(q.records, rec)
	return nil
}

type stubTracker struct {
	live   bool
	synced map[string]string
	failed []string
}

func (t *stubTracker) Live() bool { return t.live }

func (t *stubTracker) MarkSynced(_ context.Context, postID, remoteID string) {
	if t.synced == nil {
		t.synced = make(map[string]string)
	}
	t.synced[postID] = remoteID
}

func (t *stubTracker) MarkSyncFailed(_ context.Context, postID string) {
	t.failed = append(t.failed, postID)
}

type stubCloud struct {
	err     error
	appends int
}

func (c *stubCloud) Append(context.Context, *domain.Post) (string, error) {
	c.appends++
	if c.err != nil {
		return "", c.err
	}
	return "srv_1", nil
}

func (c *stubCloud) IncrementCounter(context.Context, string, string) error { return nil }
func (c *stubCloud) AppendComment(context.Context, string, domain.Comment) error {
	return nil
}
func (c *stubCloud) WipeAll(context.Context) error { return nil }

func record(id string) redisstore.OutboxRecord {
	return redisstore.OutboxRecord{
		Post:       &domain.Post{ID: id, TrackTitle: "Test Signal"},
		EnqueuedAt: time.Now(),
	}
}

func TestOutboxFlusher_FlushMirrorsAll(t *testing.T) {
	queue := &memQueue{records: []redisstore.OutboxRecord{record("post_1"), record("post_2")}}
	cloud := &stubCloud{}
	tracker := &stubTracker{live: true}
	of := NewOutboxFlusher(queue, cloud, tracker, logger.New("error", false), time.Second, 3)

	if err := of.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(queue.records) != 0 {
		t.Errorf("queue has %d records left, want 0", len(queue.records))
	}
	if cloud.appends != 2 {
		t.Errorf("cloud got %d appends, want 2", cloud.appends)
	}
	if tracker.synced["post_1"] != "srv_1" || tracker.synced["post_2"] != "srv_1" {
		t.Errorf("tracker synced = %v, want both posts marked", tracker.synced)
	}
}

func TestOutboxFlusher_SkipsWhileOffline(t *testing.T) {
	queue := &memQueue{records: []redisstore.OutboxRecord{record("post_1")}}
	cloud := &stubCloud{}
	tracker := &stubTracker{live: false}
	of := NewOutboxFlusher(queue, cloud, tracker, logger.New("error", false), time.Second, 3)

	if err := of.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(queue.records) != 1 {
		t.Errorf("queue has %d records, want 1 (untouched while offline)", len(queue.records))
	}
	if cloud.appends != 0 {
		t.Errorf("cloud got %d appends while offline, want 0", cloud.appends)
	}
}

func TestOutboxFlusher_RequeuesOnFailure(t *testing.T) {
	queue := &memQueue{records: []redisstore.OutboxRecord{record("post_1")}}
	cloud := &stubCloud{err: errors.New("cloud rejected")}
	tracker := &stubTracker{live: true}
	of := NewOutboxFlusher(queue, cloud, tracker, logger.New("error", false), time.Second, 3)

	if err := of.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if len(queue.records) != 1 {
		t.Fatalf("queue has %d records, want 1 requeued", len(queue.records))
	}
	if queue.records[0].Attempts != 1 {
		t.Errorf("requeued record Attempts = %d, want 1", queue.records[0].Attempts)
	}
	if len(tracker.failed) != 0 {
		t.Errorf("tracker failed = %v, want none yet", tracker.failed)
	}
}

func TestOutboxFlusher_GivesUpAfterMaxAttempts(t *testing.T) {
	queue := &memQueue{records: []redisstore.OutboxRecord{record("post_1")}}
	cloud := &stubCloud{err: errors.New("cloud rejected")}
	tracker := &stubTracker{live: true}
	of := NewOutboxFlusher(queue, cloud, tracker, logger.New("error", false), time.Second, 3)

	// Each pass fails once and requeues; the third attempt gives up.
	for i := 0; i < 3; i++ {
		if err := of.Flush(context.Background()); err != nil {
			t.Fatalf("Flush() pass %d error = %v", i, err)
		}
	}

	if len(queue.records) != 0 {
		t.Errorf("queue has %d records, want 0 after giving up", len(queue.records))
	}
	if len(tracker.failed) != 1 || tracker.failed[0] != "post_1" {
		t.Errorf("tracker failed = %v, want [post_1]", tracker.failed)
	}
}
