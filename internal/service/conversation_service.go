package service

import (
	"context"
	"encoding/json"
	"strings"

	"cheapbite/internal/middleware"
	"cheapbite/internal/models"
	"cheapbite/internal/notifications"
	"cheapbite/internal/observability"
	"cheapbite/internal/repository"
)

// ConversationService provides direct-message business logic.
type ConversationService struct {
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
	notifier *notifications.Notifier
	reporter observability.WriteFailureReporter
}

type SendMessageInput struct {
	SenderID uint
	PeerID   uint
	Text     string
}

func NewConversationService(
	convRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
	reporter observability.WriteFailureReporter,
) *ConversationService {
	return &ConversationService{
		convRepo: convRepo,
		userRepo: userRepo,
		notifier: notifier,
		reporter: reporter,
	}
}

// SendMessage persists the message together with both conversation summaries
// in one transaction, then publishes it to the thread channel for live
// delivery. A failed write rolls back all three rows.
func (s *ConversationService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	const maxMessageLen = 4000

	if in.SenderID == in.PeerID {
		return nil, models.NewValidationError("Cannot message yourself")
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Message text is required")
	}
	if len(text) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 4000 characters)")
	}

	sender, err := s.userRepo.GetByID(ctx, in.SenderID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.GetByID(ctx, in.PeerID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ThreadID: models.ThreadID(in.SenderID, in.PeerID),
		SenderID: in.SenderID,
		Text:     text,
	}
	if err := s.convRepo.SendMessage(ctx, msg, sender, recipient); err != nil {
		s.reporter.ReportWriteFailure(ctx, observability.WriteFailure{
			Path:      "conversations",
			Operation: "send_message",
			Err:       err,
			Fields: map[string]any{
				"thread_id": msg.ThreadID,
				"sender_id": in.SenderID,
			},
		})
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"type":    "message",
		"message": msg,
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode message payload", "error", err)
		return msg, nil
	}
	if err := s.notifier.PublishThread(ctx, msg.ThreadID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish message",
			"thread_id", msg.ThreadID, "error", err)
	}
	return msg, nil
}

// ListMessages returns the thread between the caller and the peer in
// ascending creation order.
func (s *ConversationService) ListMessages(ctx context.Context, userID, peerID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, peerID); err != nil {
		return nil, err
	}
	return s.convRepo.ListMessages(ctx, models.ThreadID(userID, peerID), limit, offset)
}

func (s *ConversationService) ListConversations(ctx context.Context, ownerID uint) ([]models.Conversation, error) {
	return s.convRepo.ListConversations(ctx, ownerID)
}

// MarkThreadRead marks the peer's messages in the thread as read.
func (s *ConversationService) MarkThreadRead(ctx context.Context, userID, peerID uint) error {
	return s.convRepo.MarkThreadRead(ctx, models.ThreadID(userID, peerID), userID)
}
