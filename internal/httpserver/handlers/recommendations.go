package handlers

import (
	"net/http"

	"github.com/ravetok/nexus/internal/domain"
	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/providers/recommend"
)

type recommendationsResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// Recommendations serves the discovery rail, matched to the session's
// favorites when a session exists. Never fails: the taste client degrades
// to canned picks on its own.
func Recommendations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var favorites *domain.Favorites
		if user := d.Engine.Session(); user != nil {
			favorites = user.Favorites
		}

		picks := d.Recommender.Recommend(r.Context(), favorites)
		writeJSON(w, http.StatusOK, recommendationsResponse{Recommendations: picks})
	}
}
