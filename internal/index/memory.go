package index

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ravetok/nexus/internal/domain"
)

// MemoryIndex provides in-memory storage and lookup for the curated track
// catalog and the user directory. Both sets are replaced wholesale on each
// curation reload; lookups never block a reload for long.
type MemoryIndex struct {
	mu                  sync.RWMutex
	tracks              map[string]*domain.LibraryTrack // ID -> track
	users               map[string]*domain.User         // ID -> user
	lastCatalogReload   time.Time
	lastDirectoryReload time.Time
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		tracks: make(map[string]*domain.LibraryTrack),
		users:  make(map[string]*domain.User),
	}
}

// UpdateTracks replaces the whole track catalog
func (idx *MemoryIndex) UpdateTracks(tracks []*domain.LibraryTrack) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.tracks = make(map[string]*domain.LibraryTrack, len(tracks))
	for _, track := range tracks {
		idx.tracks[track.ID] = track
	}
	idx.lastCatalogReload = time.Now()
}

// GetTrack retrieves a track by ID
func (idx *MemoryIndex) GetTrack(id string) (*domain.LibraryTrack, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	track, ok := idx.tracks[id]
	return track, ok
}

// GetAllTracks returns all catalog tracks ordered by ID
func (idx *MemoryIndex) GetAllTracks() []*domain.LibraryTrack {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	tracks := make([]*domain.LibraryTrack, 0, len(idx.tracks))
	for _, track := range idx.tracks {
		tracks = append(tracks, track)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID < tracks[j].ID })
	return tracks
}

// TrackCount returns the number of tracks in the catalog
func (idx *MemoryIndex) TrackCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.tracks)
}

// GetLastCatalogReload returns the timestamp of the last catalog reload
func (idx *MemoryIndex) GetLastCatalogReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastCatalogReload
}

// ─────────────────────────────────────────────────────────────────
// Directory methods
// ─────────────────────────────────────────────────────────────────

// UpdateUsers replaces the whole user directory
func (idx *MemoryIndex) UpdateUsers(users []*domain.User) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.users = make(map[string]*domain.User, len(users))
	for _, user := range users {
		idx.users[user.ID] = user
	}
	idx.lastDirectoryReload = time.Now()
}

// GetUser retrieves a user by ID
func (idx *MemoryIndex) GetUser(id string) (*domain.User, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	user, ok := idx.users[id]
	return user, ok
}

// GetUserByUsername retrieves a user by exact username
func (idx *MemoryIndex) GetUserByUsername(username string) (*domain.User, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, user := range idx.users {
		if user.Username == username {
			return user, true
		}
	}
	return nil, false
}

// UserCount returns the number of users in the directory
func (idx *MemoryIndex) UserCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.users)
}

// GetLastDirectoryReload returns the timestamp of the last directory reload
func (idx *MemoryIndex) GetLastDirectoryReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastDirectoryReload
}

// ─────────────────────────────────────────────────────────────────
// Search
// ─────────────────────────────────────────────────────────────────

// SearchTracks returns catalog tracks whose title or artist contains the
// query, case-insensitive, ordered by ID for stable output.
func (idx *MemoryIndex) SearchTracks(query string) []domain.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var matches []*domain.LibraryTrack
	for _, track := range idx.tracks {
		if strings.Contains(strings.ToLower(track.Title), q) ||
			strings.Contains(strings.ToLower(track.Artist), q) {
			matches = append(matches, track)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	results := make([]domain.SearchResult, 0, len(matches))
	for _, track := range matches {
		results = append(results, track.SearchResult())
	}
	return results
}

// SearchUsers returns directory users whose username or display name
// contains the query, case-insensitive, ordered by ID for stable output.
func (idx *MemoryIndex) SearchUsers(query string) []domain.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var matches []*domain.User
	for _, user := range idx.users {
		if strings.Contains(strings.ToLower(user.Username), q) ||
			strings.Contains(strings.ToLower(user.DisplayName), q) {
			matches = append(matches, user)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	results := make([]domain.SearchResult, 0, len(matches))
	for _, user := range matches {
		results = append(results, domain.UserSearchResult(user))
	}
	return results
}

// CatalogSource adapts track search to the aggregator's source shape.
type CatalogSource struct{ idx *MemoryIndex }

func (s CatalogSource) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	return s.idx.SearchTracks(query), nil
}

// DirectorySource adapts user search to the aggregator's source shape.
type DirectorySource struct{ idx *MemoryIndex }

func (s DirectorySource) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	return s.idx.SearchUsers(query), nil
}

// AsCatalogSource exposes the track catalog as a search source.
func (idx *MemoryIndex) AsCatalogSource() CatalogSource { return CatalogSource{idx} }

// AsDirectorySource exposes the user directory as a search source.
func (idx *MemoryIndex) AsDirectorySource() DirectorySource { return DirectorySource{idx} }
