package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/feed"
	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/scheduler"
	redisstore "github.com/ravetok/nexus/internal/store/redis"
)

// memStore is an in-memory stand-in for the redis cache store. It backs both
// the engine (feed.CacheStore) and the flusher (scheduler.OutboxQueue) so a
// full author-queue-drain cycle runs without external services.
type memStore struct {
	mu      sync.Mutex
	posts   []*domain.Post
	deleted map[string]struct{}
	session *domain.User
	outbox  []redisstore.OutboxRecord
}

func newMemStore() *memStore {
	return &memStore{deleted: make(map[string]struct{})}
}

func (m *memStore) SaveLocalPosts(_ context.Context, posts []*domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append([]*domain.Post(nil), posts...)
	return nil
}

func (m *memStore) LoadLocalPosts(_ context.Context) ([]*domain.RawPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raws := make([]*domain.RawPost, 0, len(m.posts))
	for _, p := range m.posts {
		raws = append(raws, &domain.RawPost{
			ID:         p.ID,
			UserID:     p.UserID,
			User:       &p.User,
			TrackTitle: p.TrackTitle,
			Artist:     p.Artist,
			Tags:       p.Tags,
			Likes:      domain.FlexInt(p.Likes),
			Origin:     string(p.Origin),
			RemoteID:   p.RemoteID,
			SyncStatus: string(p.SyncStatus),
			CreatedAt:  domain.FlexTime(p.CreatedAt),
		})
	}
	return raws, nil
}

func (m *memStore) ClearLocalPosts(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = nil
	return nil
}

func (m *memStore) AddDeletedID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted[id] = struct{}{}
	return nil
}

func (m *memStore) LoadDeletedIDs(_ context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]struct{}, len(m.deleted))
	for id := range m.deleted {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *memStore) SaveSession(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = user
	return nil
}

func (m *memStore) LoadSession(_ context.Context) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *memStore) ClearSession(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *memStore) EnqueueOutbox(_ context.Context, rec redisstore.OutboxRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outbox = append(m.outbox, rec)
	return nil
}

func (m *memStore) DequeueOutbox(_ context.Context) (*redisstore.OutboxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.outbox) == 0 {
		return nil, nil
	}
	rec := m.outbox[0]
	m.outbox = m.outbox[1:]
	return &rec, nil
}

func (m *memStore) ClearOutbox(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outbox = nil
	return nil
}

func (m *memStore) outboxLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outbox)
}

// memCloud is an in-memory cloud store that can be toggled to fail.
type memCloud struct {
	mu       sync.Mutex
	failing  bool
	appended []*domain.Post
	counters map[string]int
	wiped    bool
	nextID   int
}

func newMemCloud() *memCloud {
	return &memCloud{counters: make(map[string]int)}
}

func (c *memCloud) setFailing(failing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing = failing
}

func (c *memCloud) Append(_ context.Context, post *domain.Post) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return "", errors.New("cloud unavailable")
	}
	c.nextID++
	c.appended = append(c.appended, post)
	return fmt.Sprintf("srv_%d", c.nextID), nil
}

func (c *memCloud) IncrementCounter(_ context.Context, postID, counter string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cloud unavailable")
	}
	c.counters[postID+"/"+counter]++
	return nil
}

func (c *memCloud) AppendComment(_ context.Context, postID string, _ domain.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("cloud unavailable")
	}
	c.counters[postID+"/comments"]++
	return nil
}

func (c *memCloud) WipeAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wiped = true
	return nil
}

func (c *memCloud) appendedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.appended)
}

var sessionUser = &domain.User{
	ID:          "u_7",
	Username:    "basement_303",
	DisplayName: "Basement 303",
	Role:        "raver",
}

func draft(title, artist string) *domain.RawPost {
	return &domain.RawPost{
		TrackTitle: title,
		Artist:     artist,
		Tags:       []string{"rave"},
		Source:     string(domain.SourceUpload),
	}
}

// TestOfflineAuthoringSurvivesRestart authors posts while offline, then
// rebuilds the engine from the same store and checks the feed comes back.
func TestOfflineAuthoringSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	log := logger.New("error", false)

	engine := feed.NewEngine(store, nil, log)
	engine.Hydrate(ctx)
	engine.SetSession(ctx, sessionUser)

	engine.Submit(ctx, draft("Acid Trax", "Phuture"))
	engine.Submit(ctx, draft("Strings of Life", "Rhythim Is Rhythim"))

	if got := len(engine.Feed()); got != 2 {
		t.Fatalf("expected 2 posts before restart, got %d", got)
	}

	// Simulate a restart: a fresh engine over the same store.
	restarted := feed.NewEngine(store, nil, log)
	restarted.Hydrate(ctx)

	posts := restarted.Feed()
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts after restart, got %d", len(posts))
	}
	for _, p := range posts {
		if p.Origin != domain.OriginLocal {
			t.Errorf("post %s: expected local origin after restart, got %q", p.ID, p.Origin)
		}
		if p.SyncStatus != domain.SyncNone {
			t.Errorf("post %s: offline-authored post should have no sync status, got %q", p.ID, p.SyncStatus)
		}
	}
}

// TestQueueDrainAssignsCloudIdentity runs the full optimistic-sync cycle:
// author while live, drain the outbox, and verify the post now carries the
// server-assigned identity.
func TestQueueDrainAssignsCloudIdentity(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cloud := newMemCloud()
	log := logger.New("error", false)

	engine := feed.NewEngine(store, cloud, log)
	engine.Hydrate(ctx)
	engine.SetSession(ctx, sessionUser)
	engine.SetLive(true)

	post := engine.Submit(ctx, draft("Energy Flash", "Joey Beltram"))
	if post == nil {
		t.Fatal("submit returned nil")
	}
	if post.SyncStatus != domain.SyncPending {
		t.Fatalf("expected pending sync status, got %q", post.SyncStatus)
	}
	if store.outboxLen() != 1 {
		t.Fatalf("expected 1 queued mirror, got %d", store.outboxLen())
	}

	flusher := scheduler.NewOutboxFlusher(store, cloud, engine, log, time.Minute, 3)
	if err := flusher.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if cloud.appendedCount() != 1 {
		t.Fatalf("expected 1 cloud append, got %d", cloud.appendedCount())
	}
	if store.outboxLen() != 0 {
		t.Fatalf("expected drained outbox, got %d records", store.outboxLen())
	}

	posts := engine.Feed()
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	synced := posts[0]
	if synced.RemoteID != "srv_1" {
		t.Errorf("expected remote id srv_1, got %q", synced.RemoteID)
	}
	if synced.SyncStatus != domain.SyncSynced {
		t.Errorf("expected synced status, got %q", synced.SyncStatus)
	}
	if synced.Origin != domain.OriginRemote {
		t.Errorf("expected remote origin after sync, got %q", synced.Origin)
	}
}

// TestFailedMirrorIsBounded verifies a dead cloud requeues the record and a
// persistent failure eventually marks the post failed instead of spinning.
func TestFailedMirrorIsBounded(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cloud := newMemCloud()
	cloud.setFailing(true)
	log := logger.New("error", false)

	engine := feed.NewEngine(store, cloud, log)
	engine.Hydrate(ctx)
	engine.SetSession(ctx, sessionUser)
	engine.SetLive(true)

	engine.Submit(ctx, draft("Chime", "Orbital"))

	flusher := scheduler.NewOutboxFlusher(store, cloud, engine, log, time.Minute, 3)
	for i := 0; i < 3; i++ {
		if err := flusher.Flush(ctx); err != nil {
			t.Fatalf("flush failed: %v", err)
		}
	}

	if store.outboxLen() != 0 {
		t.Fatalf("expected record dropped after max attempts, got %d queued", store.outboxLen())
	}
	posts := engine.Feed()
	if len(posts) != 1 {
		t.Fatalf("expected the post to stay in the feed, got %d posts", len(posts))
	}
	if posts[0].SyncStatus != domain.SyncFailed {
		t.Errorf("expected failed sync status, got %q", posts[0].SyncStatus)
	}
	if posts[0].Origin != domain.OriginLocal {
		t.Errorf("failed mirror must keep local origin, got %q", posts[0].Origin)
	}
}

// TestDeleteOutlivesSnapshotRedelivery deletes a snapshot post, restarts,
// and redelivers the same snapshot. The post must not resurface.
func TestDeleteOutlivesSnapshotRedelivery(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	log := logger.New("error", false)

	snapshot := []*domain.RawPost{
		{ID: "post_a", TrackTitle: "Papua New Guinea", Artist: "The Future Sound of London"},
		{ID: "post_b", TrackTitle: "LFO", Artist: "LFO"},
	}

	engine := feed.NewEngine(store, nil, log)
	engine.Hydrate(ctx)
	engine.SetRemoteSnapshot(snapshot)
	engine.Delete(ctx, "post_a")

	if got := len(engine.Feed()); got != 1 {
		t.Fatalf("expected 1 post after delete, got %d", got)
	}

	restarted := feed.NewEngine(store, nil, log)
	restarted.Hydrate(ctx)
	restarted.SetRemoteSnapshot(snapshot)

	posts := restarted.Feed()
	if len(posts) != 1 {
		t.Fatalf("expected deleted post to stay hidden after restart, got %d posts", len(posts))
	}
	if posts[0].ID != "post_b" {
		t.Errorf("expected post_b to survive, got %s", posts[0].ID)
	}
}

// TestLocalEditShadowsSnapshotCopy checks reconciliation order end to end:
// the local copy of a shared id wins over the snapshot copy.
func TestLocalEditShadowsSnapshotCopy(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cloud := newMemCloud()
	log := logger.New("error", false)

	engine := feed.NewEngine(store, cloud, log)
	engine.Hydrate(ctx)
	engine.SetSession(ctx, sessionUser)
	engine.SetLive(true)

	post := engine.Submit(ctx, draft("Out of Space", "The Prodigy"))
	flusher := scheduler.NewOutboxFlusher(store, cloud, engine, log, time.Minute, 3)
	if err := flusher.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	// The cloud echoes the post back in a snapshot with stale counters.
	engine.SetRemoteSnapshot([]*domain.RawPost{
		{ID: post.ID, TrackTitle: "Out of Space", Artist: "The Prodigy", Likes: 999},
	})
	engine.Like(ctx, post.ID)

	posts := engine.Feed()
	if len(posts) != 1 {
		t.Fatalf("expected the two copies to merge into 1 post, got %d", len(posts))
	}
	if posts[0].Likes != 1 {
		t.Errorf("expected the local copy (1 like) to shadow the snapshot (999), got %d", posts[0].Likes)
	}
}
