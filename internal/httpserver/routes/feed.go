package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/httpserver/handlers"
)

func init() { Register(registerFeed) }

func registerFeed(r chi.Router, d deps.Deps) {
	r.Get("/api/feed", handlers.Feed(d))
}
