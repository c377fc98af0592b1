package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/httpserver/handlers"
)

func init() { Register(registerLibrary) }

func registerLibrary(r chi.Router, d deps.Deps) {
	r.Get("/api/library", handlers.Library(d))
	r.Get("/api/recommendations", handlers.Recommendations(d))
}
