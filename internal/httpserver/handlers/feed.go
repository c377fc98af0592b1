package handlers

import (
	"net/http"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/httpserver/deps"
)

type feedResponse struct {
	Posts []*domain.Post `json:"posts"`
	Count int            `json:"count"`
	Live  bool           `json:"live"`
}

// Feed serves the reconciled feed: cloud snapshot merged with the local
// collection, deletions applied, newest first.
func Feed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts := d.Engine.Feed()
		writeJSON(w, http.StatusOK, feedResponse{
			Posts: posts,
			Count: len(posts),
			Live:  d.Engine.Live(),
		})
	}
}
