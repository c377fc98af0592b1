package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ravetok/nexus/internal/feed"
	"github.com/ravetok/nexus/internal/index"
	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/providers/recommend"
	"github.com/ravetok/nexus/internal/search"
)

type Deps struct {
	Logger                 logger.Logger
	StartTime              time.Time
	Version                string
	Commit                 string
	BuildDate              string
	GoVersion              string
	TimeNow                func() time.Time   // for testing, defaults to time.Now
	AllowedHosts           []string           // Host headers allowed on the admin surface
	AllowedCIDRS           []string           // IPs allowed on the admin/infra surface
	TrustProxy             bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedisClient            *redis.Client      // Redis client connection
	Engine                 *feed.Engine       // Feed state container
	Aggregator             *search.Aggregator // Multi-source search fan-out
	MemoryIndex            *index.MemoryIndex // In-memory catalog + directory index
	Recommender            *recommend.Client  // Taste service client (canned fallback built in)
	DebounceInterval       time.Duration      // Quiet period for live search sessions
	CatalogReloadTrigger   chan struct{}      // Channel to trigger manual catalog reload
	DirectoryReloadTrigger chan struct{}      // Channel to trigger manual directory reload (nil if disabled)
}
