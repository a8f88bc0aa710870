package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheusfi/prometheus/internal/api/store"
)

// DefaultNotificationRetention is how long notifications are kept.
const DefaultNotificationRetention = 90 * 24 * time.Hour

// HousekeepingService periodically removes expired invites and old
// notifications.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// OnDeleted, when set, receives the row count of each cleanup kind.
	OnDeleted func(kind string, n int64)

	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to one hour and
// a non-positive retention to DefaultNotificationRetention.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultNotificationRetention
	}
	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", slog.Duration("interval", s.Interval))
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
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

// Cleanup runs every deletion once. A failing kind does not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.now()

	s.sweep("invites", func() (int64, error) {
		return s.Store.Invites().DeleteExpiredInvites(ctx, now)
	})
	s.sweep("notifications", func() (int64, error) {
		return s.Store.Notifications().DeleteNotificationsBefore(ctx, now.Add(-s.Retention))
	})
}

func (s *HousekeepingService) sweep(kind string, del func() (int64, error)) {
	n, err := del()
	if err != nil {
		s.Logger.Error("housekeeping cleanup failed", slog.String("kind", kind), slog.Any("error", err))
		return
	}
	if s.OnDeleted != nil {
		s.OnDeleted(kind, n)
	}
	s.Logger.Debug("housekeeping cleanup", slog.String("kind", kind), slog.Int64("deleted", n))
}
