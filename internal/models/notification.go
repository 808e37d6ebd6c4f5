package models

import "time"

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification is a fan-out record delivered to a recipient's inbox. The
// unique index over (recipient, type, sender, post) makes at-least-once
// fan-out idempotent: a retried insert hits ON CONFLICT DO NOTHING. PostID
// is 0 for follow notifications rather than NULL, since NULLs are distinct
// in unique indexes and would let replayed follows pile up. A user never
// receives a notification about their own action.
type Notification struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	RecipientID       uint      `gorm:"not null;uniqueIndex:idx_notification_dedupe;index" json:"recipient_id"`
	Type              string    `gorm:"not null;uniqueIndex:idx_notification_dedupe" json:"type"`
	SenderID          uint      `gorm:"not null;uniqueIndex:idx_notification_dedupe" json:"sender_id"`
	PostID            uint      `gorm:"not null;default:0;uniqueIndex:idx_notification_dedupe" json:"post_id,omitempty"`
	SenderUsername    string    `json:"sender_username"`
	SenderDisplayName string    `json:"sender_display_name"`
	SenderPhotoURL    string    `json:"sender_photo_url"`
	PostContent       string    `json:"post_content,omitempty"`
	CommentText       string    `json:"comment_text,omitempty"`
	Read              bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt         time.Time `json:"created_at"`
}

// SetSender copies the sender snapshot onto the notification.
func (n *Notification) SetSender(u *User) {
	n.SenderID = u.ID
	n.SenderUsername = u.Username
	n.SenderDisplayName = u.DisplayName
	n.SenderPhotoURL = u.PhotoURL
}

// ValidNotificationType reports whether t is a known notification type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}
