package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Attachment discriminants. A post carries at most one attachment; the type
// field is the tag and the payload column holds the matching structured value.
const (
	AttachmentNone         = ""
	AttachmentRecipe       = "recipe"
	AttachmentBeverage     = "beverage"
	AttachmentGroceryList  = "grocery_list"
	AttachmentProductLabel = "product_label"
)

// ValidAttachmentType reports whether t is a known attachment discriminant.
func ValidAttachmentType(t string) bool {
	switch t {
	case AttachmentNone, AttachmentRecipe, AttachmentBeverage, AttachmentGroceryList, AttachmentProductLabel:
		return true
	}
	return false
}

// AuthorSnapshot is the denormalized author view copied onto posts, comments
// and notifications at creation time. It is not kept in sync with later
// profile edits.
type AuthorSnapshot struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// SnapshotOf captures the author snapshot for the given user.
func SnapshotOf(u *User) AuthorSnapshot {
	return AuthorSnapshot{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
}

// Post is a feed entry. LikeCount and CommentCount are maintained solely via
// atomic deltas paired with the insert or delete of the corresponding Like or
// Comment row; they are never written directly.
type Post struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	AuthorID          uint            `gorm:"not null;index" json:"author_id"`
	AuthorUsername    string          `json:"author_username"`
	AuthorDisplayName string          `json:"author_display_name"`
	AuthorPhotoURL    string          `json:"author_photo_url"`
	Content           string          `gorm:"type:text;not null" json:"content"`
	Location          string          `json:"location,omitempty"`
	Tags              StringList      `gorm:"type:json" json:"tags,omitempty"`
	ExternalVideoURL  string          `json:"external_video_url,omitempty"`
	MediaURL          string          `json:"media_url,omitempty"`
	AttachmentType    string          `gorm:"index" json:"attachment_type,omitempty"`
	Attachment        json.RawMessage `gorm:"type:json" json:"attachment,omitempty"`
	LikeCount         int             `gorm:"not null;default:0" json:"like_count"`
	CommentCount      int             `gorm:"not null;default:0" json:"comment_count"`
	IsPublic          bool            `gorm:"not null;default:true" json:"is_public"`
	SearchTerms       StringList      `gorm:"type:json" json:"-"`
	// Liked indicates whether the requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SetAuthor copies the author snapshot onto the post.
func (p *Post) SetAuthor(u *User) {
	p.AuthorID = u.ID
	p.AuthorUsername = u.Username
	p.AuthorDisplayName = u.DisplayName
	p.AuthorPhotoURL = u.PhotoURL
}

// ValidateAttachment checks the tag and payload agree: an empty tag requires
// an empty payload and a set tag requires a non-empty JSON object.
func (p *Post) ValidateAttachment() error {
	if !ValidAttachmentType(p.AttachmentType) {
		return NewValidationError("unknown attachment type: " + p.AttachmentType)
	}
	hasPayload := len(p.Attachment) > 0 && string(p.Attachment) != "null"
	if p.AttachmentType == AttachmentNone && hasPayload {
		return NewValidationError("attachment payload present without attachment type")
	}
	if p.AttachmentType != AttachmentNone && !hasPayload {
		return NewValidationError("attachment type set without payload")
	}
	if hasPayload && !json.Valid(p.Attachment) {
		return NewValidationError("attachment payload is not valid JSON")
	}
	return nil
}

// Like marks that a user liked a post. The composite primary key makes a
// duplicate like a no-op at the database level.
type Like struct {
	PostID    uint      `gorm:"primaryKey" json:"post_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a flat comment on a post, listed ascending by creation time.
type Comment struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	PostID            uint           `gorm:"not null;index" json:"post_id"`
	AuthorID          uint           `gorm:"not null;index" json:"author_id"`
	AuthorUsername    string         `json:"author_username"`
	AuthorDisplayName string         `json:"author_display_name"`
	AuthorPhotoURL    string         `json:"author_photo_url"`
	Text              string         `gorm:"type:text;not null" json:"text"`
	CreatedAt         time.Time      `json:"created_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// SetAuthor copies the author snapshot onto the comment.
func (c *Comment) SetAuthor(u *User) {
	c.AuthorID = u.ID
	c.AuthorUsername = u.Username
	c.AuthorDisplayName = u.DisplayName
	c.AuthorPhotoURL = u.PhotoURL
}
