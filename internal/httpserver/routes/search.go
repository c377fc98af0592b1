package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/httpserver/handlers"
	"github.com/ravetok/nexus/internal/httpserver/mw"
)

func init() { Register(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	// The one-shot endpoint takes the hit of a full source fan-out per
	// request, so it gets a per-IP token bucket. The live endpoint holds a
	// single websocket and debounces internally.
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             20,
		RefillPerIPPerMin: 60,
		MaxEntries:        10000,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	}))
	limited.Get("/api/search", handlers.Search(d))

	r.Get("/api/search/live", handlers.LiveSearch(d))
}
