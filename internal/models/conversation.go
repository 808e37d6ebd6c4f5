package models

import (
	"fmt"
	"time"
)

// ThreadID derives the canonical thread identifier for a pair of users. The
// smaller ID always comes first so both participants compute the same value.
func ThreadID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

// Conversation is one side of a direct-message thread summary. Each send
// upserts two rows, one per participant, so either user can list their
// conversations without joining messages.
type Conversation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OwnerID         uint      `gorm:"not null;uniqueIndex:idx_conversation_pair;index" json:"owner_id"`
	PeerID          uint      `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"peer_id"`
	PeerUsername    string    `json:"peer_username"`
	PeerDisplayName string    `json:"peer_display_name"`
	PeerPhotoURL    string    `json:"peer_photo_url"`
	LastMessage     string    `json:"last_message"`
	LastUpdatedAt   time.Time `gorm:"index" json:"last_updated_at"`
}

// SetPeer copies the peer snapshot onto the conversation summary.
func (c *Conversation) SetPeer(u *User) {
	c.PeerID = u.ID
	c.PeerUsername = u.Username
	c.PeerDisplayName = u.DisplayName
	c.PeerPhotoURL = u.PhotoURL
}

// Message is a single direct message inside a thread, read in ascending
// creation order.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  string    `gorm:"not null;index" json:"thread_id"`
	SenderID  uint      `gorm:"not null" json:"sender_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
