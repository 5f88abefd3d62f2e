package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ridesafe/identity/internal/identity/store"
)

// UsedBackupCodeRetention is how long consumed backup codes are kept.
const UsedBackupCodeRetention = 30 * 24 * time.Hour

// Sweeper is implemented by in-process caches that need expired entries
// dropped.
type Sweeper interface {
	Sweep() int
}

// HousekeepingService periodically clears expired reset tokens and old
// consumed backup codes.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Timeout  time.Duration
	Now      func() time.Time

	// Sweepers are optional; the in-memory pending cache registers here.
	Sweepers []Sweeper

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start is non-blocking. Call Stop to shut the worker down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Each step is independent; a failure is logged and
// the rest still run.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	if n, err := s.Store.Accounts().ClearExpiredResetTokens(ctx, now); err != nil {
		s.Logger.Error("failed to clear expired reset tokens", "error", err)
	} else if n > 0 {
		s.Logger.Info("cleared expired reset tokens", "count", n)
	}

	if n, err := s.Store.BackupCodes().DeleteUsedBefore(ctx, now.Add(-UsedBackupCodeRetention)); err != nil {
		s.Logger.Error("failed to delete used backup codes", "error", err)
	} else if n > 0 {
		s.Logger.Info("deleted used backup codes", "count", n)
	}

	for _, sw := range s.Sweepers {
		if n := sw.Sweep(); n > 0 {
			s.Logger.Debug("swept expired cache entries", "count", n)
		}
	}
}
