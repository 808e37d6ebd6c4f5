package service

import (
	"context"
	"errors"
	"testing"

	"cheapbite/internal/models"
	"cheapbite/internal/notifications"
	"cheapbite/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notifRepoStub is a stub for repository.NotificationRepository.
type notifRepoStub struct {
	createIdempotentFn func(context.Context, *models.Notification) (bool, error)
	listByRecipientFn  func(context.Context, uint, int, int) ([]models.Notification, error)
	countUnreadFn      func(context.Context, uint) (int64, error)
	markReadFn         func(context.Context, uint, uint) error
	markAllReadFn      func(context.Context, uint) error
}

func (s *notifRepoStub) CreateIdempotent(ctx context.Context, n *models.Notification) (bool, error) {
	return s.createIdempotentFn(ctx, n)
}
func (s *notifRepoStub) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID, limit, offset)
}
func (s *notifRepoStub) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.countUnreadFn(ctx, recipientID)
}
func (s *notifRepoStub) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	return s.markReadFn(ctx, recipientID, notificationID)
}
func (s *notifRepoStub) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.markAllReadFn(ctx, recipientID)
}

func noopNotifRepo() *notifRepoStub {
	return &notifRepoStub{
		createIdempotentFn: func(_ context.Context, _ *models.Notification) (bool, error) { return true, nil },
		listByRecipientFn: func(_ context.Context, _ uint, _, _ int) ([]models.Notification, error) {
			return nil, nil
		},
		countUnreadFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		markReadFn:    func(_ context.Context, _, _ uint) error { return nil },
		markAllReadFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// reporterStub records write failures handed to the observer.
type reporterStub struct {
	failures []observability.WriteFailure
}

func (r *reporterStub) ReportWriteFailure(_ context.Context, f observability.WriteFailure) {
	r.failures = append(r.failures, f)
}

// newNotifService wires a NotificationService with a nil Redis notifier,
// which makes publishes no-ops.
func newNotifService(repo *notifRepoStub, reporter *reporterStub) *NotificationService {
	return NewNotificationService(repo, notifications.NewNotifier(nil), reporter)
}

// captureNotifs returns a NotificationService whose stores land in the
// returned slice pointer. Used by the follow, post and comment tests.
func captureNotifs(t *testing.T) (*NotificationService, *[]*models.Notification) {
	t.Helper()
	var captured []*models.Notification
	repo := noopNotifRepo()
	repo.createIdempotentFn = func(_ context.Context, n *models.Notification) (bool, error) {
		captured = append(captured, n)
		return true, nil
	}
	return newNotifService(repo, &reporterStub{}), &captured
}

func TestNotificationService_FanoutSuppressesSelf(t *testing.T) {
	repo := noopNotifRepo()
	called := false
	repo.createIdempotentFn = func(_ context.Context, _ *models.Notification) (bool, error) {
		called = true
		return true, nil
	}
	svc := newNotifService(repo, &reporterStub{})

	svc.Fanout(context.Background(), &models.Notification{
		RecipientID: 7,
		SenderID:    7,
		Type:        models.NotificationLike,
	})

	assert.False(t, called, "self-notification must not be stored")
}

func TestNotificationService_FanoutReportsStoreFailure(t *testing.T) {
	repo := noopNotifRepo()
	repo.createIdempotentFn = func(_ context.Context, _ *models.Notification) (bool, error) {
		return false, errors.New("db down")
	}
	reporter := &reporterStub{}
	svc := newNotifService(repo, reporter)

	// must not panic or propagate; the triggering operation already committed
	svc.Fanout(context.Background(), &models.Notification{
		RecipientID: 2,
		SenderID:    1,
		Type:        models.NotificationComment,
	})

	require.Len(t, reporter.failures, 1)
	assert.Equal(t, "notifications", reporter.failures[0].Path)
	assert.Equal(t, "fanout", reporter.failures[0].Operation)
}

func TestNotificationService_FanoutStoresOnce(t *testing.T) {
	svc, captured := captureNotifs(t)

	n := &models.Notification{RecipientID: 2, SenderID: 1, Type: models.NotificationFollow}
	svc.Fanout(context.Background(), n)

	require.Len(t, *captured, 1)
	assert.Equal(t, models.NotificationFollow, (*captured)[0].Type)
}

func TestNotificationService_MarkRead(t *testing.T) {
	repo := noopNotifRepo()
	var gotRecipient, gotID uint
	repo.markReadFn = func(_ context.Context, recipientID, notificationID uint) error {
		gotRecipient, gotID = recipientID, notificationID
		return nil
	}
	svc := newNotifService(repo, &reporterStub{})

	require.NoError(t, svc.MarkRead(context.Background(), 5, 42))
	assert.Equal(t, uint(5), gotRecipient)
	assert.Equal(t, uint(42), gotID)
}
