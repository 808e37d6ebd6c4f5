// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is the private account record. Counters are denormalized and only ever
// adjusted with SQL deltas inside the transaction that changes the follow edge.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"unique;not null" json:"username"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	DisplayName    string         `json:"display_name"`
	PhotoURL       string         `json:"photo_url"`
	CoverPhotoURL  string         `json:"cover_photo_url"`
	Bio            string         `json:"bio"`
	Tagline        string         `json:"tagline"`
	AccentColor    string         `json:"accent_color"`
	WebsiteLink    string         `json:"website_link"`
	FollowerCount  int            `gorm:"not null;default:0" json:"follower_count"`
	FollowingCount int            `gorm:"not null;default:0" json:"following_count"`
	SearchTerms    StringList     `gorm:"type:json" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicProfile is the view of a user that other users see.
type PublicProfile struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	PhotoURL       string `json:"photo_url"`
	CoverPhotoURL  string `json:"cover_photo_url"`
	Bio            string `json:"bio"`
	Tagline        string `json:"tagline"`
	AccentColor    string `json:"accent_color"`
	WebsiteLink    string `json:"website_link"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
}

// PublicProfile returns the public view of the user.
func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		PhotoURL:       u.PhotoURL,
		CoverPhotoURL:  u.CoverPhotoURL,
		Bio:            u.Bio,
		Tagline:        u.Tagline,
		AccentColor:    u.AccentColor,
		WebsiteLink:    u.WebsiteLink,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
	}
}

// ComputeSearchTerms builds the lowercase token set used for prefix search.
// It must be recomputed on every write that touches username or display name.
func ComputeSearchTerms(username, displayName string) StringList {
	seen := make(map[string]struct{})
	var terms StringList

	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		terms = append(terms, s)
	}

	add(username)
	add(displayName)
	for _, tok := range strings.Fields(displayName) {
		add(tok)
	}
	return terms
}

// UsernameReservation claims a username. The primary key is the reservation:
// a second insert for the same name fails, which is what makes createAccount
// safe to retry.
type UsernameReservation struct {
	Username  string    `gorm:"primaryKey" json:"username"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow is a directed edge from follower to followee.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
