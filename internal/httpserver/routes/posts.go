package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/httpserver/handlers"
)

func init() { Register(registerPosts) }

func registerPosts(r chi.Router, d deps.Deps) {
	r.Post("/api/posts", handlers.CreatePost(d))
	r.Delete("/api/posts/{id}", handlers.DeletePost(d))
	r.Post("/api/posts/{id}/like", handlers.LikePost(d))
	r.Post("/api/posts/{id}/comments", handlers.CommentPost(d))
	r.Post("/api/posts/{id}/offers", handlers.PostOffer(d))
}
