package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ravetok/nexus/internal/config"
	"github.com/ravetok/nexus/internal/feed"
	"github.com/ravetok/nexus/internal/httpserver"
	"github.com/ravetok/nexus/internal/httpserver/deps"
	"github.com/ravetok/nexus/internal/index"
	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/providers/recommend"
	"github.com/ravetok/nexus/internal/providers/youtube"
	"github.com/ravetok/nexus/internal/redis"
	"github.com/ravetok/nexus/internal/remote"
	"github.com/ravetok/nexus/internal/scheduler"
	"github.com/ravetok/nexus/internal/search"
	redisstore "github.com/ravetok/nexus/internal/store/redis"
	"github.com/ravetok/nexus/internal/version"
)

type App struct {
	cfg               *config.Config
	logger            logger.Logger
	server            *httpserver.Server
	redisClient       *goredis.Client
	memIndex          *index.MemoryIndex
	engine            *feed.Engine
	catalogReloader   *scheduler.CatalogReloader
	directoryReloader *scheduler.DirectoryReloader
	outboxFlusher     *scheduler.OutboxFlusher
	subscriber        *remote.Subscriber
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Initialize memory index and cache store
	memIndex := index.NewMemoryIndex()
	store := redisstore.NewStore(redisClient)

	// Cloud store client (nil = permanently local-only node)
	var cloud remote.Store
	var cloudClient *remote.Client
	if cfg.CloudAPIURL != "" {
		cloudClient = remote.NewClient(cfg.CloudAPIURL, cfg.CloudAPIKey)
		cloud = cloudClient
	} else {
		loggerClient.Info("cloud api not configured, running local-only")
	}

	// Feed engine, hydrated from the cache before anything can mutate it
	engine := feed.NewEngine(store, cloud, loggerClient)
	engine.Hydrate(context.Background())

	// Snapshot stream subscriber (only with a configured stream)
	var subscriber *remote.Subscriber
	if cfg.CloudStreamURL != "" {
		subscriber = remote.NewSubscriber(cfg.CloudStreamURL, engine, loggerClient)
	}

	// Outbox flusher mirrors queued posts once the stream is live
	var outboxFlusher *scheduler.OutboxFlusher
	if cloud != nil {
		outboxFlusher = scheduler.NewOutboxFlusher(
			store,
			cloud,
			engine,
			loggerClient,
			cfg.OutboxFlushInterval,
			cfg.OutboxMaxAttempts,
		)
	}

	// Create manual reload trigger channels
	catalogReloadTrigger := make(chan struct{}, 1)

	// Initialize catalog reloader
	catalogReloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		memIndex,
		loggerClient,
		cfg.ReloadInterval,
		catalogReloadTrigger,
	)

	// Initialize directory reloader (if directory file is configured)
	var directoryReloader *scheduler.DirectoryReloader
	var directoryReloadTrigger chan struct{}
	if cfg.DirectoryFile != "" {
		loggerClient.Info("directory file configured, initializing directory reloader",
			logger.String("file", cfg.DirectoryFile))
		directoryReloadTrigger = make(chan struct{}, 1)
		directoryReloader = scheduler.NewDirectoryReloader(
			cfg.DirectoryFile,
			memIndex,
			loggerClient,
			cfg.ReloadInterval,
			directoryReloadTrigger,
		)
	} else {
		loggerClient.Info("directory file not configured, user search disabled")
	}

	// Search sources: catalog and directory from the index, video from
	// YouTube when a key is configured
	var videoSource search.Source
	if cfg.YouTubeAPIKey != "" {
		videoSource = youtube.NewClient(cfg.YouTubeAPIURL, cfg.YouTubeAPIKey)
	} else {
		loggerClient.Info("youtube api key not configured, video search disabled")
	}
	var directorySource search.Source
	if cfg.DirectoryFile != "" {
		directorySource = memIndex.AsDirectorySource()
	}
	aggregator := search.NewAggregator(
		memIndex.AsCatalogSource(),
		directorySource,
		videoSource,
		cfg.SearchMinQuery,
		loggerClient,
	)

	recommender := recommend.NewClient(cfg.TasteAPIURL, cfg.TasteAPIKey, loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:                 loggerClient,
		StartTime:              time.Now(),
		Version:                version.Version,
		Commit:                 version.Commit,
		BuildDate:              version.BuildDate,
		GoVersion:              version.GoVersion,
		TimeNow:                time.Now,
		AllowedHosts:           cfg.AllowedHosts,
		AllowedCIDRS:           cfg.AllowedCIDRS,
		TrustProxy:             cfg.TrustProxy,
		RedisClient:            redisClient,
		Engine:                 engine,
		Aggregator:             aggregator,
		MemoryIndex:            memIndex,
		Recommender:            recommender,
		DebounceInterval:       cfg.SearchDebounce,
		CatalogReloadTrigger:   catalogReloadTrigger,
		DirectoryReloadTrigger: directoryReloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:               cfg,
		logger:            loggerClient,
		server:            server,
		redisClient:       redisClient,
		memIndex:          memIndex,
		engine:            engine,
		catalogReloader:   catalogReloader,
		directoryReloader: directoryReloader,
		outboxFlusher:     outboxFlusher,
		subscriber:        subscriber,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Nexus v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Nexus %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start catalog reloader (loads tracks and starts periodic refresh)
	if err := a.catalogReloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	// Start directory reloader (if enabled)
	if a.directoryReloader != nil {
		if err := a.directoryReloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start directory reloader: %w", err)
		}
		a.logger.Info("directory reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start the snapshot stream subscriber (if configured). It owns the
	// live signal and reconnects on its own.
	if a.subscriber != nil {
		go func() {
			if err := a.subscriber.Start(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("cloud stream subscriber stopped", logger.Error(err))
			}
		}()
	}

	// Start outbox flusher (if a cloud store is configured)
	if a.outboxFlusher != nil {
		if err := a.outboxFlusher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start outbox flusher: %w", err)
		}
		a.logger.Info("outbox flusher started",
			logger.Duration("interval", a.cfg.OutboxFlushInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Stop reloaders and flusher
	a.catalogReloader.Stop()
	if a.directoryReloader != nil {
		a.directoryReloader.Stop()
	}
	if a.outboxFlusher != nil {
		a.outboxFlusher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Nexus stopped cleanly")
	return nil
}
