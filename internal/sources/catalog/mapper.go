package catalog

import (
	"fmt"
	"strings"

	"github.com/ravetok/nexus/internal/domain"
)

// Mapper converts catalog config entries to domain.LibraryTrack entities
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapTracks converts a CatalogConfig to []*domain.LibraryTrack. The genre
// group key becomes the track genre; entries without an artist are skipped.
func (m *Mapper) MapTracks(config CatalogConfig) ([]*domain.LibraryTrack, error) {
	var tracks []*domain.LibraryTrack

	for _, genreMap := range config {
		for genre, trackList := range genreMap {
			for _, trackMap := range trackList {
				for title, props := range trackMap {
					if title == "" || props.Artist == "" {
						continue
					}

					track := &domain.LibraryTrack{
						ID:         trackID(props.Artist, title),
						Title:      title,
						Artist:     props.Artist,
						Label:      props.Label,
						Year:       props.Year,
						Genre:      genre,
						BPM:        props.BPM,
						Artwork:    props.Artwork,
						PreviewURL: props.Preview,
						Verified:   props.Verified,
						Mix:        props.Mix,
						Duration:   props.Duration,
					}

					tracks = append(tracks, track)
				}
			}
		}
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("no valid tracks found in catalog config")
	}

	return tracks, nil
}

// trackID builds a stable identity from artist and title so reloads keep
// the same ids.
// Example: ("Joey Beltram", "Energy Flash") -> "lib_joey-beltram_energy-flash"
func trackID(artist, title string) string {
	return "lib_" + slug(artist) + "_" + slug(title)
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
