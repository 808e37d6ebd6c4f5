package service

import (
	"context"
	"encoding/json"

	"cheapbite/internal/middleware"
	"cheapbite/internal/models"
	"cheapbite/internal/notifications"
	"cheapbite/internal/observability"
	"cheapbite/internal/repository"
)

// NotificationService owns the notification inbox and the fan-out path
// invoked by the like, comment and follow services.
type NotificationService struct {
	notifRepo repository.NotificationRepository
	notifier  *notifications.Notifier
	reporter  observability.WriteFailureReporter
}

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	notifier *notifications.Notifier,
	reporter observability.WriteFailureReporter,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		notifier:  notifier,
		reporter:  reporter,
	}
}

// Fanout persists the notification and publishes it for live delivery.
// Self-notifications are suppressed. Delivery is at-least-once: the insert is
// idempotent on (recipient, type, sender, post), so a replay is a no-op and
// nothing is published twice. Failures are reported but never propagated; the
// triggering operation has already committed.
func (s *NotificationService) Fanout(ctx context.Context, n *models.Notification) {
	if n.RecipientID == n.SenderID {
		return
	}

	created, err := s.notifRepo.CreateIdempotent(ctx, n)
	if err != nil {
		s.reporter.ReportWriteFailure(ctx, observability.WriteFailure{
			Path:      "notifications",
			Operation: "fanout",
			Err:       err,
			Fields: map[string]any{
				"recipient_id": n.RecipientID,
				"type":         n.Type,
			},
		})
		return
	}
	if !created {
		return
	}

	observability.NotificationFanout.WithLabelValues(n.Type).Inc()

	payload, err := json.Marshal(map[string]any{
		"type":         "notification",
		"notification": n,
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode notification payload", "error", err)
		return
	}
	if err := s.notifier.PublishUser(ctx, n.RecipientID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			"recipient_id", n.RecipientID, "error", err)
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifRepo.CountUnread(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	return s.notifRepo.MarkRead(ctx, recipientID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.notifRepo.MarkAllRead(ctx, recipientID)
}
