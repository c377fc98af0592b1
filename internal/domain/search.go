package domain

import "strconv"

// ResultType tags which source a search result came from. The same raw id
// may validly appear under different types, so result identity is the
// composite (ID, Type) pair.
type ResultType string

const (
	ResultCatalog ResultType = "catalog"
	ResultUser    ResultType = "user"
	ResultVideo   ResultType = "video"
)

// SearchResult is an ephemeral search hit. It lives only for the duration of
// a search session and is never persisted.
type SearchResult struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Artist    string            `json:"artist"`
	Type      ResultType        `json:"type"`
	Thumbnail string            `json:"thumbnail"`
	VideoRef  string            `json:"videoRef,omitempty"`
	Meta      map[string]string `json:"metadata,omitempty"`
}

// Key returns the composite dedupe key.
func (r SearchResult) Key() string {
	return r.ID + "|" + string(r.Type)
}

// UserSearchResult projects a directory user into the search result shape.
func UserSearchResult(u *User) SearchResult {
	meta := map[string]string{}
	if u.Followers > 0 {
		meta["followers"] = strconv.Itoa(u.Followers)
	}
	if u.Role != "" {
		meta["role"] = u.Role
	}
	return SearchResult{
		ID:        u.ID,
		Title:     u.DisplayName,
		Artist:    "@" + u.Username,
		Type:      ResultUser,
		Thumbnail: u.Avatar,
		Meta:      meta,
	}
}

// Facet is the client-selected result-type filter, applied synchronously to
// already fetched results without re-triggering any source.
type Facet string

const (
	FacetAll     Facet = "all"
	FacetVideo   Facet = "video"
	FacetCatalog Facet = "catalog"
	FacetUsers   Facet = "users"
)

// ParseFacet maps a query value to a facet, defaulting to all.
func ParseFacet(v string) Facet {
	switch Facet(v) {
	case FacetVideo, FacetCatalog, FacetUsers:
		return Facet(v)
	default:
		return FacetAll
	}
}

// MergeResults concatenates result batches in the order given and drops
// every later occurrence of an (id, type) pair already seen. Batch order is
// part of the contract: callers pass sources in their fixed display order.
func MergeResults(batches ...[]SearchResult) []SearchResult {
	seen := make(map[string]struct{})
	var merged []SearchResult
	for _, batch := range batches {
		for _, r := range batch {
			key := r.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, r)
		}
	}
	return merged
}

// FilterFacet returns the subset of results matching the facet. Pure; the
// input slice is not modified.
func FilterFacet(results []SearchResult, facet Facet) []SearchResult {
	if facet == FacetAll || facet == "" {
		return results
	}
	var want ResultType
	switch facet {
	case FacetVideo:
		want = ResultVideo
	case FacetCatalog:
		want = ResultCatalog
	case FacetUsers:
		want = ResultUser
	default:
		return results
	}
	filtered := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.Type == want {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
