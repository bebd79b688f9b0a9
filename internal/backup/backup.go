// Package backup periodically uploads the data file to an
// S3-compatible bucket. It is an off-site safety net for the single
// JSON document everything lives in; restore is a manual download.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/metrics"
	"github.com/prn-tf/grouporder-hub/internal/persist"
)

// Uploader stores one snapshot object. Implemented by S3Uploader; tests
// substitute their own.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}

// Config contains backup scheduler configuration.
type Config struct {
	// Interval is how often the data file is uploaded.
	Interval time.Duration

	// Prefix is prepended to every object key.
	Prefix string
}

// Scheduler uploads the data file on a fixed interval.
type Scheduler struct {
	file     *persist.File
	uploader Uploader
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	config   Config

	// Control
	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewScheduler creates a new backup scheduler.
func NewScheduler(file *persist.File, uploader Uploader, m *metrics.Metrics, logger zerolog.Logger, config Config) *Scheduler {
	return &Scheduler{
		file:     file,
		uploader: uploader,
		metrics:  m,
		logger:   logger.With().Str("component", "backup").Logger(),
		config:   config,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start begins the backup scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info().
		Dur("interval", s.config.Interval).
		Str("prefix", s.config.Prefix).
		Msg("Starting backup scheduler")

	go s.runLoop()
}

// Stop stops the backup scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopChan)
	<-s.doneChan

	s.logger.Info().Msg("Backup scheduler stopped")
}

// runLoop is the main backup loop.
func (s *Scheduler) runLoop() {
	defer close(s.doneChan)

	// Run immediately on start
	s.runOnce()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.stopChan:
			return
		}
	}
}

// runOnce uploads one snapshot. Failures are logged and counted, never
// fatal: the next tick retries.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := s.RunOnce(ctx)
	s.metrics.RecordBackup(err)
	if err != nil {
		s.logger.Error().Err(err).Msg("backup failed")
	}
}

// RunOnce uploads the current data file once.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	data, err := os.ReadFile(s.file.Path())
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Msg("no data file yet, skipping backup")
			return nil
		}
		return fmt.Errorf("failed to read data file: %w", err)
	}

	// A timestamped copy for history and a stable key for easy restore.
	stamped := fmt.Sprintf("%sapp-data-%s.json", s.config.Prefix, time.Now().UTC().Format("20060102T150405Z"))
	latest := s.config.Prefix + "app-data-latest.json"

	for _, key := range []string{stamped, latest} {
		if err := s.uploader.Upload(ctx, key, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
	}

	s.logger.Info().
		Str("key", stamped).
		Int("bytes", len(data)).
		Msg("backup uploaded")

	return nil
}
