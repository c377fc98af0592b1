package handlers

import (
	"net/http"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/httpserver/deps"
)

type libraryResponse struct {
	Tracks []*domain.LibraryTrack `json:"tracks"`
	Count  int                    `json:"count"`
}

// Library serves the full curated track catalog for the upload picker.
func Library(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracks := d.MemoryIndex.GetAllTracks()
		writeJSON(w, http.StatusOK, libraryResponse{
			Tracks: tracks,
			Count:  len(tracks),
		})
	}
}
