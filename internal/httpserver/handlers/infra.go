package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ravetok/nexus/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Loaded     *int   `json:"loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	SyncMode   string                     `json:"sync_mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		localPosts, snapshotPosts, deletedIDs, live := d.Engine.Stats()
		trackCount := d.MemoryIndex.TrackCount()
		userCount := d.MemoryIndex.UserCount()

		components := map[string]componentStatus{
			"feed": {
				OK:     true,
				Loaded: &localPosts,
				Mode:   feedMode(live),
			},
			"snapshot": {
				OK:     live,
				Loaded: &snapshotPosts,
			},
			"deleted": {
				OK:     true,
				Loaded: &deletedIDs,
			},
			"catalog": {
				OK:         trackCount > 0,
				Loaded:     &trackCount,
				LastReload: reloadTime(d.MemoryIndex.GetLastCatalogReload()),
			},
			"directory": {
				OK:         userCount > 0,
				Loaded:     &userCount,
				LastReload: reloadTime(d.MemoryIndex.GetLastDirectoryReload()),
			},
			"redis": checkRedis(d),
		}

		response := infraResponse{
			SyncMode:   determineSyncMode(components, live),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func feedMode(live bool) string {
	if live {
		return "mirrored"
	}
	return "local-only"
}

func reloadTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}

func determineSyncMode(components map[string]componentStatus, live bool) string {
	// No catalog = nothing to search or post from
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		return "critical"
	}

	// Redis down = feed state lives in memory only
	if rds, exists := components["redis"]; exists && !rds.OK {
		return "degraded"
	}

	if live {
		return "connected"
	}
	return "local-only"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "persistence-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := d.RedisClient.Ping(ctx).Err()
	if err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "persistence-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "persistence-enabled",
		Error:  "none",
	}
}
