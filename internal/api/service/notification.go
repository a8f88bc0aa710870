package service

import (
	"context"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/store"
)

type NotificationService struct {
	Store store.Store
}

func (s *NotificationService) List(ctx context.Context, viewer domain.User) ([]domain.Notification, error) {
	return s.Store.Notifications().ListNotifications(ctx, viewer.ID)
}

// ReadAll clears the new flag on every notification of the viewer.
func (s *NotificationService) ReadAll(ctx context.Context, viewer domain.User) error {
	return s.Store.Notifications().MarkAllRead(ctx, viewer.ID)
}
