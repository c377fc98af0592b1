package domain

// LibraryTrack is an entry in the curated local track catalog. The catalog
// is a read-only search source; tracks become posts only through the upload
// path (Source == "library").
type LibraryTrack struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Label      string `json:"label,omitempty"`
	Year       string `json:"year,omitempty"`
	Genre      string `json:"genre,omitempty"`
	BPM        int    `json:"bpm,omitempty"`
	Artwork    string `json:"artwork,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Verified   bool   `json:"verified"`
	Mix        bool   `json:"isMix,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// SearchResult projects the track into the search result shape.
func (t *LibraryTrack) SearchResult() SearchResult {
	meta := map[string]string{}
	if t.Label != "" {
		meta["label"] = t.Label
	}
	if t.Year != "" {
		meta["year"] = t.Year
	}
	return SearchResult{
		ID:        t.ID,
		Title:     t.Title,
		Artist:    t.Artist,
		Type:      ResultCatalog,
		Thumbnail: t.Artwork,
		Meta:      meta,
	}
}
