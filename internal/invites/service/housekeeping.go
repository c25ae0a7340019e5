package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
)

const DefaultInviteRetention = 30 * 24 * time.Hour

// HousekeepingService periodically archives invites that expired more than
// Retention ago. Archived rows are kept for audit and still resolve as
// expired; they only drop out of listings. Redeemability never depends on
// it; expiry is checked on read.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Clock overrides time.Now, for tests.
	Clock func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. Non-positive
// interval defaults to 1 hour and non-positive retention to 30 days.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultInviteRetention
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval,
		"retention", s.Retention,
	)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	_, _ = s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			_, _ = s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce archives invites that expired before now minus Retention.
func (s *HousekeepingService) RunOnce(ctx context.Context) (int64, error) {
	now := s.now()
	cutoff := now.Add(-s.Retention)

	n, err := s.Store.Invites().ArchiveInvitesExpiredBefore(ctx, cutoff, now)
	if err != nil {
		s.Logger.Error("failed to archive expired invites", "error", err)
		return 0, err
	}

	s.Logger.Info("housekeeping cleanup completed",
		"archived_invites", n,
		"cutoff", cutoff,
	)
	return n, nil
}

func (s *HousekeepingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
