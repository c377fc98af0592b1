package domain

import "sort"

// BuildFeed merges the cloud snapshot and the session-local collection into
// one deduplicated, ordered feed. It is a pure function of its three inputs:
// no internal state, deterministic, idempotent.
//
// Merge order is deliberate: remote entries are inserted first and local
// entries overwrite them, so a locally authored edit or optimistic post
// always wins over a possibly stale cloud copy of the same id. Every entry
// passes through Normalize, so one malformed record degrades to defaults
// without breaking reconciliation for the rest. IDs in the deleted set are
// excluded regardless of which side they came from.
func BuildFeed(remote, local []*Post, deleted map[string]struct{}) []*Post {
	merged := make(map[string]*Post, len(remote)+len(local))
	order := make([]string, 0, len(remote)+len(local))

	insert := func(p *Post) {
		np := Normalize(p)
		if np == nil {
			return
		}
		if _, seen := merged[np.ID]; !seen {
			order = append(order, np.ID)
		}
		merged[np.ID] = np
	}
	for _, p := range remote {
		insert(p)
	}
	for _, p := range local {
		insert(p)
	}

	feed := make([]*Post, 0, len(merged))
	for _, id := range order {
		if _, gone := deleted[id]; gone {
			continue
		}
		feed = append(feed, merged[id])
	}

	// Newest first by creation time; lexically descending id breaks ties and
	// carries records whose timestamp could not be recovered, since both the
	// local and the cloud id schemes embed creation order.
	sort.SliceStable(feed, func(i, j int) bool {
		a, b := feed[i], feed[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return feed
}
