package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CatalogFile    string        // path to the curated catalog.yaml
	DirectoryFile  string        // path to the user directory.yaml (optional, empty = directory lane disabled)
	ReloadInterval time.Duration // interval to reload curation files (default: 24h)

	// Cloud post store. Empty CloudAPIURL makes this a permanently
	// local-only node: no mirroring, no snapshot stream.
	CloudAPIURL    string // ex: https://cloud.ravetok.ext
	CloudStreamURL string // ex: wss://cloud.ravetok.ext/v1/stream
	CloudAPIKey    string // optional bearer token

	// Video search lane. Empty key disables the lane.
	YouTubeAPIURL string
	YouTubeAPIKey string

	// Taste service for the recommendation rail. Optional; canned picks
	// serve when absent.
	TasteAPIURL string
	TasteAPIKey string

	SearchDebounce time.Duration // quiet period before a live search fires (default: 500ms)
	SearchMinQuery int           // minimum query length that triggers a search (default: 3)

	OutboxFlushInterval time.Duration // pause between outbox drain passes (default: 10s)
	OutboxMaxAttempts   int           // mirror tries per post before giving up (default: 5)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict admin surface to specific IPs (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NEXUS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NEXUS_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("NEXUS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NEXUS_PRETTY_LOG", true),

		// Curation files
		CatalogFile:    getenv("NEXUS_CATALOG_FILE", "/app/catalog.yaml"),
		DirectoryFile:  getenv("NEXUS_DIRECTORY_FILE", ""), // Optional, empty = directory lane disabled
		ReloadInterval: mustDuration("NEXUS_RELOAD_SOURCE_INTERVAL", 24*time.Hour),

		// Cloud post store
		CloudAPIURL:    getenv("NEXUS_CLOUD_API_URL", ""),
		CloudStreamURL: getenv("NEXUS_CLOUD_STREAM_URL", ""),
		CloudAPIKey:    getenv("NEXUS_CLOUD_API_KEY", ""),

		// Search providers
		YouTubeAPIURL:  getenv("NEXUS_YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeAPIKey:  getenv("NEXUS_YOUTUBE_API_KEY", ""),
		TasteAPIURL:    getenv("NEXUS_TASTE_API_URL", ""),
		TasteAPIKey:    getenv("NEXUS_TASTE_API_KEY", ""),
		SearchDebounce: mustDuration("NEXUS_SEARCH_DEBOUNCE", 500*time.Millisecond),
		SearchMinQuery: getenvInt("NEXUS_SEARCH_MIN_QUERY", 3),

		// Outbox
		OutboxFlushInterval: mustDuration("NEXUS_OUTBOX_FLUSH_INTERVAL", 10*time.Second),
		OutboxMaxAttempts:   getenvInt("NEXUS_OUTBOX_MAX_ATTEMPTS", 5),

		// Redis settings
		RedisAddr:             requireEnv("NEXUS_REDIS_ADDR"),
		RedisUser:             getenv("NEXUS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("NEXUS_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("NEXUS_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("NEXUS_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("NEXUS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("NEXUS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("NEXUS_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: NEXUS_REDIS_PASSWORD is required when NEXUS_REDIS_PASSWORD_REQUIRED=true")
	}

	// The stream URL only makes sense alongside the API URL
	if cfg.CloudStreamURL != "" && cfg.CloudAPIURL == "" {
		panic("❌ FATAL: NEXUS_CLOUD_STREAM_URL requires NEXUS_CLOUD_API_URL")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.CloudAPIKey = "***REDACTED***"
		cfgCopy.YouTubeAPIKey = "***REDACTED***"
		cfgCopy.TasteAPIKey = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
