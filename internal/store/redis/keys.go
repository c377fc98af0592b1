package redis

const (
	// KeyLocalPosts holds the session-local post collection as one JSON array.
	KeyLocalPosts = "nexus:posts:local"
	// KeyDeletedIDs is the set of soft-deleted post IDs.
	KeyDeletedIDs = "nexus:posts:deleted"
	// KeySession holds the current session identity as JSON.
	KeySession = "nexus:session:user"
	// KeyOutbox is the list of pending cloud-mirror records.
	KeyOutbox = "nexus:outbox"
)
