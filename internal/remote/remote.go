package remote

import (
	"context"

	"github.com/ravetok/nexus/internal/domain"
)

// Store is the write side of the cloud post store. All calls are
// best-effort: the engine never blocks on them and never rolls back local
// state when they fail.
type Store interface {
	// Append mirrors a post to the cloud store and returns the
	// server-assigned identity.
	Append(ctx context.Context, post *domain.Post) (string, error)

	// IncrementCounter bumps a named counter (likes, reposts, shares) on a
	// cloud post.
	IncrementCounter(ctx context.Context, postID, counter string) error

	// AppendComment appends a comment to a cloud post's comment list.
	AppendComment(ctx context.Context, postID string, c domain.Comment) error

	// WipeAll deletes every post in the cloud store.
	WipeAll(ctx context.Context) error
}

// SnapshotSink receives stream deliveries. The subscriber pushes every
// snapshot as delivered, in the provider's own consistency order, and flips
// the connectivity signal around connect/disconnect.
type SnapshotSink interface {
	SetRemoteSnapshot(posts []*domain.RawPost)
	SetLive(live bool)
}
