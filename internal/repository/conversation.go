package repository

import (
	"context"
	"time"

	"cheapbite/internal/cache"
	"cheapbite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository persists direct messages and the per-user thread
// summaries. A send is one transaction: the message insert plus an upsert of
// both participants' conversation rows.
type ConversationRepository interface {
	SendMessage(ctx context.Context, msg *models.Message, sender, recipient *models.User) error
	ListMessages(ctx context.Context, threadID string, limit, offset int) ([]models.Message, error)
	ListConversations(ctx context.Context, ownerID uint) ([]models.Conversation, error)
	MarkThreadRead(ctx context.Context, threadID string, readerID uint) error
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) SendMessage(ctx context.Context, msg *models.Message, sender, recipient *models.User) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		senderSide := models.Conversation{
			OwnerID:       sender.ID,
			LastMessage:   msg.Text,
			LastUpdatedAt: now,
		}
		senderSide.SetPeer(recipient)

		recipientSide := models.Conversation{
			OwnerID:       recipient.ID,
			LastMessage:   msg.Text,
			LastUpdatedAt: now,
		}
		recipientSide.SetPeer(sender)

		for _, side := range []*models.Conversation{&senderSide, &recipientSide} {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "owner_id"}, {Name: "peer_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"peer_username", "peer_display_name", "peer_photo_url",
					"last_message", "last_updated_at",
				}),
			}).Create(side).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateConversations(ctx, sender.ID)
	cache.InvalidateConversations(ctx, recipient.ID)
	return nil
}

// ListMessages returns the thread backfill in ascending creation order.
func (r *conversationRepository) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	if err := readDB(r.db).WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *conversationRepository) ListConversations(ctx context.Context, ownerID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	key := cache.ConversationsKey(ownerID)

	err := cache.Aside(ctx, key, &conversations, cache.ConversationsTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Where("owner_id = ?", ownerID).
			Order("last_updated_at DESC").
			Find(&conversations).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return conversations, nil
}

// MarkThreadRead marks every message in the thread not sent by the reader.
func (r *conversationRepository) MarkThreadRead(ctx context.Context, threadID string, readerID uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("thread_id = ? AND sender_id <> ? AND read = ?", threadID, readerID, false).
		UpdateColumn("read", true).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
