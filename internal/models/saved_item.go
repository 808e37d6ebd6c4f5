package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Saved item kinds mirror the attachment discriminants.
const (
	SavedRecipe       = AttachmentRecipe
	SavedBeverage     = AttachmentBeverage
	SavedGroceryList  = AttachmentGroceryList
	SavedProductLabel = AttachmentProductLabel
)

// SavedItem is a piece of generated content a user kept. The ID is derived
// from the title slug plus the save timestamp, which deduplicates by
// convention only: a millisecond collision is theoretically possible and
// accepted.
type SavedItem struct {
	ID      string          `gorm:"primaryKey" json:"id"`
	UserID  uint            `gorm:"not null;index" json:"user_id"`
	Kind    string          `gorm:"not null;index" json:"kind"`
	Title   string          `gorm:"not null" json:"title"`
	Payload json.RawMessage `gorm:"type:json" json:"payload"`
	SavedAt time.Time       `json:"saved_at"`
}

// SavedItemID derives the saved item identifier from the title slug and the
// save time in Unix milliseconds.
func SavedItemID(slug string, at time.Time) string {
	return fmt.Sprintf("%s-%d", slug, at.UnixMilli())
}

// ValidSavedKind reports whether k is a known saved item kind.
func ValidSavedKind(k string) bool {
	switch k {
	case SavedRecipe, SavedBeverage, SavedGroceryList, SavedProductLabel:
		return true
	}
	return false
}
