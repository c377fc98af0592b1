package feed

import (
	"context"
	"sync"
	"time"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/remote"
	redisstore "github.com/ravetok/nexus/internal/store/redis"
)

// CacheStore is the slice of the persistent cache the engine writes through.
// Satisfied by the redis store; nil disables persistence (memory-only mode).
type CacheStore interface {
	SaveLocalPosts(ctx context.Context, posts []*domain.Post) error
	LoadLocalPosts(ctx context.Context) ([]*domain.RawPost, error)
	ClearLocalPosts(ctx context.Context) error
	AddDeletedID(ctx context.Context, id string) error
	LoadDeletedIDs(ctx context.Context) (map[string]struct{}, error)
	SaveSession(ctx context.Context, user *domain.User) error
	LoadSession(ctx context.Context) (*domain.User, error)
	ClearSession(ctx context.Context) error
	EnqueueOutbox(ctx context.Context, rec redisstore.OutboxRecord) error
	ClearOutbox(ctx context.Context) error
}

// Engine is the application-state container for the feed core. It owns the
// three state slices the reconciler derives from (cloud snapshot, local
// collection, deleted-id set) plus the session identity and the cloud
// connectivity signal. Every read of the feed is a fresh pure reconciliation
// over the current slices; observers are notified whenever any slice
// changes.
//
// Local state is the source of truth for the session: cloud propagation is
// best-effort and its failures never roll anything back. All persistence is
// full-collection replace-and-persist through the cache store.
type Engine struct {
	store  CacheStore   // may be nil
	cloud  remote.Store // may be nil (permanently offline node)
	logger logger.Logger

	mu       sync.RWMutex
	local    []*domain.Post
	snapshot []*domain.Post
	deleted  map[string]struct{}
	session  *domain.User
	live     bool
	hydrated bool

	subMu sync.Mutex
	subs  []chan struct{}
}

// NewEngine creates an engine. store and cloud may be nil.
func NewEngine(store CacheStore, cloud remote.Store, log logger.Logger) *Engine {
	return &Engine{
		store:   store,
		cloud:   cloud,
		logger:  log,
		deleted: make(map[string]struct{}),
	}
}

// Hydrate loads the persisted slices from the cache store. Anything read
// back is untrusted and passes through the sanitizer. Load failures are
// logged and leave the engine running memory-only; mutations are not
// persisted until hydration has run, so a slow or failed load can never be
// clobbered by an empty initial state.
func (e *Engine) Hydrate(ctx context.Context) {
	defer func() {
		e.mu.Lock()
		e.hydrated = true
		e.mu.Unlock()
	}()

	if e.store == nil {
		return
	}

	raws, err := e.store.LoadLocalPosts(ctx)
	if err != nil {
		e.logger.Warn("failed to load local posts from cache", logger.Error(err))
	}
	local := make([]*domain.Post, 0, len(raws))
	for _, raw := range raws {
		if p := domain.Sanitize(raw); p != nil {
			local = append(local, p)
		}
	}

	deleted, err := e.store.LoadDeletedIDs(ctx)
	if err != nil {
		e.logger.Warn("failed to load deleted ids from cache", logger.Error(err))
		deleted = make(map[string]struct{})
	}

	session, err := e.store.LoadSession(ctx)
	if err != nil {
		e.logger.Warn("failed to load session from cache", logger.Error(err))
	}

	e.mu.Lock()
	e.local = local
	e.deleted = deleted
	e.session = session
	e.mu.Unlock()

	e.logger.Info("feed state hydrated from cache",
		logger.Int("local_posts", len(local)),
		logger.Int("deleted_ids", len(deleted)))
	e.notify()
}

// SetRemoteSnapshot replaces the cloud view with a fresh snapshot delivery.
// The most recent delivery always wins wholesale; snapshots are never
// patched incrementally.
func (e *Engine) SetRemoteSnapshot(raws []*domain.RawPost) {
	posts := make([]*domain.Post, 0, len(raws))
	for _, raw := range raws {
		if p := domain.Sanitize(raw); p != nil {
			p.Origin = domain.OriginRemote
			posts = append(posts, p)
		}
	}

	e.mu.Lock()
	e.snapshot = posts
	e.mu.Unlock()
	e.notify()
}

// SetLive flips the cloud connectivity signal.
func (e *Engine) SetLive(live bool) {
	e.mu.Lock()
	changed := e.live != live
	e.live = live
	e.mu.Unlock()
	if changed {
		e.logger.Info("cloud connectivity changed", logger.Bool("live", live))
		e.notify()
	}
}

// Live reports the cloud connectivity signal.
func (e *Engine) Live() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.live
}

// Feed reconciles the current state slices into the ordered, deduplicated,
// non-deleted feed.
func (e *Engine) Feed() []*domain.Post {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return domain.BuildFeed(e.snapshot, e.local, e.deleted)
}

// Submit authors a new post optimistically: it becomes visible through the
// next reconciliation immediately, and when the cloud is live a mirror
// record is queued for the outbox flusher. Without a session identity the
// call is a silent no-op and returns nil. Mirror failures never affect the
// already-applied local state.
func (e *Engine) Submit(ctx context.Context, draft *domain.RawPost) *domain.Post {
	e.mu.RLock()
	session := e.session
	live := e.live
	e.mu.RUnlock()

	if session == nil || draft == nil {
		return nil
	}

	now := time.Now().UTC()
	draft.ID = domain.NewLocalID(now)
	draft.UserID = session.ID
	draft.User = session
	draft.Likes, draft.Reposts, draft.Shares = 0, 0, 0
	draft.Comments = nil
	draft.Origin = string(domain.OriginLocal)
	draft.RemoteID = ""
	draft.CreatedAt = domain.FlexTime(now)
	if live {
		draft.SyncStatus = string(domain.SyncPending)
	} else {
		draft.SyncStatus = string(domain.SyncNone)
	}

	post := domain.Sanitize(draft)

	e.mu.Lock()
	e.local = append([]*domain.Post{post}, e.local...)
	e.persistLocalLocked(ctx)
	e.mu.Unlock()
	e.notify()

	if live && e.store != nil {
		rec := redisstore.OutboxRecord{Post: post.Clone(), EnqueuedAt: now}
		if err := e.store.EnqueueOutbox(ctx, rec); err != nil {
			e.logger.Warn("failed to queue cloud mirror, post stays local",
				logger.String("post_id", post.ID),
				logger.Error(err))
		}
	}

	e.logger.Info("post authored",
		logger.String("post_id", post.ID),
		logger.Bool("mirror_queued", live))
	return post.Clone()
}

// Like applies an optimistic like: the local shadow of the post (when one
// exists) is bumped immediately, and the increment is forwarded to the cloud
// fire-and-forget when the cloud is live and the post is known there.
func (e *Engine) Like(ctx context.Context, postID string) {
	e.mu.Lock()
	for _, p := range e.local {
		if p.ID == postID {
			p.Likes++
			p.Liked = true
			e.persistLocalLocked(ctx)
			break
		}
	}
	e.mu.Unlock()
	e.notify()

	e.forwardEngagement(postID, "likes", nil)
}

// Comment appends a comment authored by the current session to the post's
// local shadow and forwards it to the cloud fire-and-forget. Returns nil
// when no session identity is present.
func (e *Engine) Comment(ctx context.Context, postID, text string) *domain.Comment {
	e.mu.RLock()
	session := e.session
	e.mu.RUnlock()
	if session == nil {
		return nil
	}

	comment := domain.NewComment(session, text)

	e.mu.Lock()
	for _, p := range e.local {
		if p.ID == postID {
			p.Comments = append(p.Comments, comment)
			e.persistLocalLocked(ctx)
			break
		}
	}
	e.mu.Unlock()
	e.notify()

	e.forwardEngagement(postID, "", &comment)
	return &comment
}

// Delete soft-deletes a post: its id joins the exclusion set and it never
// surfaces in the feed again, regardless of which side still holds it. The
// set is append-only; no data is erased from any source.
func (e *Engine) Delete(ctx context.Context, postID string) {
	e.mu.Lock()
	e.deleted[postID] = struct{}{}
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.AddDeletedID(ctx, postID); err != nil {
			e.logger.Warn("failed to persist deleted id",
				logger.String("post_id", postID),
				logger.Error(err))
		}
	}
	e.logger.Info("post soft-deleted", logger.String("post_id", postID))
	e.notify()
}

// Wipe clears the local archive unconditionally and attempts the cloud wipe
// best-effort. A cloud failure is logged but never reverts the local clear;
// callers warn the user before invoking this, not after.
func (e *Engine) Wipe(ctx context.Context) {
	e.mu.Lock()
	e.local = nil
	e.snapshot = nil
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.ClearLocalPosts(ctx); err != nil {
			e.logger.Warn("failed to clear persisted local posts", logger.Error(err))
		}
		if err := e.store.ClearOutbox(ctx); err != nil {
			e.logger.Warn("failed to clear outbox", logger.Error(err))
		}
	}
	e.notify()

	if e.cloud != nil && e.Live() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := e.cloud.WipeAll(ctx); err != nil {
				e.logger.Error("cloud wipe failed, local archive cleared anyway",
					logger.Error(err))
			}
		}()
	}
	e.logger.Warn("archive wiped")
}

// MarkSynced records the cloud identity assigned to a mirrored post. From
// here on the post counts as known to the cloud: engagement forwards under
// the assigned identity.
func (e *Engine) MarkSynced(ctx context.Context, postID, remoteID string) {
	e.mu.Lock()
	for _, p := range e.local {
		if p.ID == postID {
			p.RemoteID = remoteID
			p.SyncStatus = domain.SyncSynced
			p.Origin = domain.OriginRemote
			e.persistLocalLocked(ctx)
			break
		}
	}
	e.mu.Unlock()
	e.notify()
}

// MarkSyncFailed records that the outbox gave up mirroring a post.
func (e *Engine) MarkSyncFailed(ctx context.Context, postID string) {
	e.mu.Lock()
	for _, p := range e.local {
		if p.ID == postID {
			p.SyncStatus = domain.SyncFailed
			e.persistLocalLocked(ctx)
			break
		}
	}
	e.mu.Unlock()
	e.notify()
}

// Session returns the current session identity, or nil.
func (e *Engine) Session() *domain.User {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.session == nil {
		return nil
	}
	cp := *e.session
	return &cp
}

// SetSession installs and persists the session identity.
func (e *Engine) SetSession(ctx context.Context, user *domain.User) {
	e.mu.Lock()
	e.session = user
	e.mu.Unlock()

	if e.store != nil && user != nil {
		if err := e.store.SaveSession(ctx, user); err != nil {
			e.logger.Warn("failed to persist session", logger.Error(err))
		}
	}
	e.notify()
}

// Logout drops the session identity and the local collection for a fresh
// start. The deleted-id set is kept; it belongs to the archive, not the
// session.
func (e *Engine) Logout(ctx context.Context) {
	e.mu.Lock()
	e.session = nil
	e.local = nil
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.ClearSession(ctx); err != nil {
			e.logger.Warn("failed to clear persisted session", logger.Error(err))
		}
		if err := e.store.ClearLocalPosts(ctx); err != nil {
			e.logger.Warn("failed to clear persisted local posts", logger.Error(err))
		}
	}
	e.notify()
}

// Subscribe returns a channel that receives a signal whenever any state
// slice changes. Signals are coalesced; slow consumers miss intermediate
// notifications, never the final state.
func (e *Engine) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	e.subMu.Lock()
	e.subs = append(e.subs, ch)
	e.subMu.Unlock()
	return ch
}

// Stats reports the current slice sizes for the infra surface.
func (e *Engine) Stats() (local, snapshot, deleted int, live bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.local), len(e.snapshot), len(e.deleted), e.live
}

// forwardEngagement mirrors a counter bump or comment to the cloud when the
// post is known there. Posts that exist only locally are skipped outright;
// failures are logged and never surfaced or rolled back.
func (e *Engine) forwardEngagement(postID, counter string, comment *domain.Comment) {
	if e.cloud == nil || !e.Live() {
		return
	}

	cloudID, known := e.cloudIDFor(postID)
	if !known {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var err error
		if comment != nil {
			err = e.cloud.AppendComment(ctx, cloudID, *comment)
		} else {
			err = e.cloud.IncrementCounter(ctx, cloudID, counter)
		}
		if err != nil {
			e.logger.Warn("engagement sync skipped",
				logger.String("post_id", postID),
				logger.Error(err))
		}
	}()
}

// cloudIDFor resolves the identity a post is known by on the cloud side.
// Local-origin posts without a confirmed cloud identity are not known there.
func (e *Engine) cloudIDFor(postID string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, p := range e.local {
		if p.ID == postID {
			if p.RemoteID != "" {
				return p.RemoteID, true
			}
			return p.ID, p.Origin == domain.OriginRemote
		}
	}
	for _, p := range e.snapshot {
		if p.ID == postID {
			return p.ID, true
		}
	}
	return "", false
}

// persistLocalLocked writes the local collection through to the cache
// store. Callers hold e.mu. Persistence is suppressed until hydration has
// run so an empty initial state can never clobber what is already stored.
func (e *Engine) persistLocalLocked(ctx context.Context) {
	if e.store == nil || !e.hydrated {
		return
	}
	if err := e.store.SaveLocalPosts(ctx, e.local); err != nil {
		e.logger.Warn("failed to persist local posts", logger.Error(err))
	}
}

func (e *Engine) notify() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
