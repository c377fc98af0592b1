package scheduler

import (
	"context"
	"time"

	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/remote"
	redisstore "github.com/ravetok/nexus/internal/store/redis"
)

const (
	// DefaultFlushInterval is the pause between outbox drain passes.
	DefaultFlushInterval = 10 * time.Second
	// DefaultMaxAttempts is how many mirror tries a record gets before it is
	// marked failed and dropped from the queue.
	DefaultMaxAttempts = 5
)

// OutboxQueue is the slice of the cache store the flusher drains.
type OutboxQueue interface {
	DequeueOutbox(ctx context.Context) (*redisstore.OutboxRecord, error)
	EnqueueOutbox(ctx context.Context, rec redisstore.OutboxRecord) error
}

// SyncTracker receives the outcome of each mirror attempt.
type SyncTracker interface {
	Live() bool
	MarkSynced(ctx context.Context, postID, remoteID string)
	MarkSyncFailed(ctx context.Context, postID string)
}

// OutboxFlusher drains queued post mirrors to the cloud store. Each record
// gets a bounded number of attempts; a cloud failure requeues the record and
// ends the pass so a dead cloud is retried next tick instead of spun on.
type OutboxFlusher struct {
	queue       OutboxQueue
	cloud       remote.Store
	tracker     SyncTracker
	logger      logger.Logger
	interval    time.Duration
	maxAttempts int
	stopCh      chan struct{}
}

// NewOutboxFlusher creates a new outbox flusher
func NewOutboxFlusher(
	queue OutboxQueue,
	cloud remote.Store,
	tracker SyncTracker,
	log logger.Logger,
	interval time.Duration,
	maxAttempts int,
) *OutboxFlusher {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &OutboxFlusher{
		queue:       queue,
		cloud:       cloud,
		tracker:     tracker,
		logger:      log,
		interval:    interval,
		maxAttempts: maxAttempts,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the periodic flush process
func (of *OutboxFlusher) Start(ctx context.Context) error {
	ticker := time.NewTicker(of.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := of.Flush(ctx); err != nil {
					of.logger.Error("outbox flush failed",
						logger.Error(err))
				}
			case <-of.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the flusher
func (of *OutboxFlusher) Stop() {
	close(of.stopCh)
}

// Flush drains the outbox until it is empty or the cloud rejects a mirror.
// Skipped entirely while the cloud stream is down; queued records simply
// wait.
func (of *OutboxFlusher) Flush(ctx context.Context) error {
	if !of.tracker.Live() {
		return nil
	}

	for {
		rec, err := of.queue.DequeueOutbox(ctx)
		if err != nil {
			return err
		}
		if rec == nil {
			return nil
		}
		if rec.Post == nil {
			continue
		}

		remoteID, err := of.cloud.Append(ctx, rec.Post)
		if err == nil {
			of.tracker.MarkSynced(ctx, rec.Post.ID, remoteID)
			of.logger.Info("post mirrored to cloud",
				logger.String("post_id", rec.Post.ID),
				logger.String("remote_id", remoteID))
			continue
		}

		rec.Attempts++
		if rec.Attempts >= of.maxAttempts {
			of.tracker.MarkSyncFailed(ctx, rec.Post.ID)
			of.logger.Error("giving up on post mirror",
				logger.String("post_id", rec.Post.ID),
				logger.Int("attempts", rec.Attempts),
				logger.Error(err))
			continue
		}

		if qErr := of.queue.EnqueueOutbox(ctx, *rec); qErr != nil {
			of.logger.Error("failed to requeue post mirror",
				logger.String("post_id", rec.Post.ID),
				logger.Error(qErr))
		}
		of.logger.Warn("post mirror failed, requeued",
			logger.String("post_id", rec.Post.ID),
			logger.Int("attempts", rec.Attempts),
			logger.Error(err))
		return nil
	}
}
