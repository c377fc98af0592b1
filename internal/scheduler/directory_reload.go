package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ravetok/nexus/internal/index"
	"github.com/ravetok/nexus/internal/logger"
	"github.com/ravetok/nexus/internal/sources/directory"
)

// DirectoryReloader handles periodic reloading of the user directory
type DirectoryReloader struct {
	loader        *directory.Loader
	mapper        *directory.Mapper
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewDirectoryReloader creates a new directory reloader
func NewDirectoryReloader(
	directoryFile string,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *DirectoryReloader {
	return &DirectoryReloader{
		loader:        directory.NewLoader(directoryFile),
		mapper:        directory.NewMapper(),
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (dr *DirectoryReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := dr.Reload(ctx); err != nil {
		return fmt.Errorf("initial directory reload failed: %w", err)
	}

	ticker := time.NewTicker(dr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := dr.Reload(ctx); err != nil {
					dr.logger.Error("failed to reload directory",
						logger.Error(err))
				}
			case <-dr.manualTrigger:
				dr.logger.Info("manual directory reload triggered")
				if err := dr.Reload(ctx); err != nil {
					dr.logger.Error("failed to reload directory",
						logger.Error(err))
				}
			case <-dr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (dr *DirectoryReloader) Stop() {
	close(dr.stopCh)
}

// Reload loads the directory file and replaces the index wholesale. A failed
// load keeps the previous directory in place.
func (dr *DirectoryReloader) Reload(ctx context.Context) error {
	_ = ctx

	config, err := dr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}

	users, err := dr.mapper.MapUsers(config)
	if err != nil {
		return fmt.Errorf("failed to map directory: %w", err)
	}

	dr.index.UpdateUsers(users)

	dr.logger.Info("directory reloaded",
		logger.Int("users", len(users)))

	return nil
}
