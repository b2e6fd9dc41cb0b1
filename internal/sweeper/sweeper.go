// Package sweeper reconciles the file store against the catalog: stored
// video files that no record references are deleted out-of-band, so
// partial failures never leak disk space permanently.
package sweeper

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/vidhost-go/internal/config"
	"github.com/user/vidhost-go/internal/storage"
	"github.com/user/vidhost-go/internal/store"
)

// initialDelay defers the first sweep so startup is not slowed down
const initialDelay = 5 * time.Second

// Sweeper runs the periodic orphan reconciliation task
type Sweeper struct {
	store   store.Store
	files   *storage.FileStore
	config  *config.SweeperConfig
	running atomic.Bool
	mu      sync.Mutex // prevents overlapping sweeps
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewSweeper creates a new sweeper instance
func NewSweeper(st store.Store, files *storage.FileStore, cfg *config.SweeperConfig) *Sweeper {
	return &Sweeper{
		store:  st,
		files:  files,
		config: cfg,
		stopCh: make(chan struct{}),
	}
}

// Start begins the sweeper with an initial delay and periodic execution
func (s *Sweeper) Start(ctx context.Context) {
	if !s.config.Enabled {
		log.Info().Msg("Sweeper is disabled")
		return
	}

	s.wg.Add(1)
	go s.run(ctx)
}

// run is the main sweeper loop
func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	log.Info().Dur("delay", initialDelay).Msg("Sweeper starting with initial delay")

	select {
	case <-time.After(initialDelay):
		s.executeSweep(ctx)
	case <-s.stopCh:
		log.Info().Msg("Sweeper stopped during initial delay")
		return
	case <-ctx.Done():
		log.Info().Msg("Sweeper context cancelled during initial delay")
		return
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.config.Interval).Msg("Sweeper started periodic execution")

	for {
		select {
		case <-ticker.C:
			s.executeSweep(ctx)
		case <-s.stopCh:
			log.Info().Msg("Sweeper stopped")
			return
		case <-ctx.Done():
			log.Info().Msg("Sweeper context cancelled")
			return
		}
	}
}

// executeSweep runs a single sweep with mutex protection
func (s *Sweeper) executeSweep(ctx context.Context) {
	if !s.mu.TryLock() {
		log.Warn().Msg("Sweep already running, skipping this trigger")
		return
	}
	defer s.mu.Unlock()

	s.running.Store(true)
	defer s.running.Store(false)

	startTime := time.Now()

	removed, err := s.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Sweep failed")
		return
	}

	log.Info().
		Int("removed", removed).
		Dur("duration", time.Since(startTime)).
		Msg("Sweep completed")
}

// RunOnce performs a single reconciliation pass and returns how many
// orphaned video files were removed. Files younger than the grace period
// are left alone; an upload may still be in flight for them.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	paths, err := s.store.ListVideoPaths(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[filepath.Base(p)] = struct{}{}
	}

	stored, err := s.files.ListVideoFiles()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.config.Grace)
	removed := 0
	for _, f := range stored {
		if _, ok := referenced[f.Name]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}

		log.Info().Str("file", f.Name).Time("modTime", f.ModTime).Msg("Removing orphaned video file")
		s.files.RemoveBestEffort(s.files.VideoPath(f.Name))
		s.files.RemoveBestEffort(s.files.ThumbnailPath(storage.ThumbnailName(f.Name)))
		removed++
	}

	return removed, nil
}

// Stop gracefully stops the sweeper
func (s *Sweeper) Stop() {
	log.Info().Msg("Stopping sweeper...")
	close(s.stopCh)
	s.wg.Wait()
	log.Info().Msg("Sweeper stopped")
}

// IsRunning returns true if a sweep is currently in progress
func (s *Sweeper) IsRunning() bool {
	return s.running.Load()
}
