package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/httpserver/handlers"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	r.Get("/api/session", handlers.Session(d))
	r.Post("/api/session", handlers.Login(d))
	r.Delete("/api/session", handlers.Logout(d))
}
