package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThreadID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3-7", ThreadID(3, 7))
	assert.Equal(t, "3-7", ThreadID(7, 3), "thread ID must be symmetric")
	assert.Equal(t, "5-5", ThreadID(5, 5))
}

func TestPostValidateAttachment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		attachmentType string
		attachment     json.RawMessage
		wantErr        bool
	}{
		{
			name:           "no attachment",
			attachmentType: AttachmentNone,
		},
		{
			name:           "recipe with payload",
			attachmentType: AttachmentRecipe,
			attachment:     json.RawMessage(`{"title":"Ackee and Saltfish"}`),
		},
		{
			name:           "payload without type",
			attachmentType: AttachmentNone,
			attachment:     json.RawMessage(`{"title":"orphan"}`),
			wantErr:        true,
		},
		{
			name:           "type without payload",
			attachmentType: AttachmentGroceryList,
			wantErr:        true,
		},
		{
			name:           "unknown type",
			attachmentType: "meal_plan",
			attachment:     json.RawMessage(`{}`),
			wantErr:        true,
		},
		{
			name:           "invalid json payload",
			attachmentType: AttachmentBeverage,
			attachment:     json.RawMessage(`{not json`),
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Post{AttachmentType: tt.attachmentType, Attachment: tt.attachment}
			err := p.ValidateAttachment()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	base := func() Event {
		return Event{
			Title:          "Potluck",
			CreatedBy:      1,
			StartTime:      time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
			EndTime:        time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC),
			ParticipantIDs: UintList{1, 2, 3},
			AttendeeIDs:    UintList{1, 2},
			Status:         EventScheduled,
		}
	}

	t.Run("valid", func(t *testing.T) {
		e := base()
		assert.NoError(t, e.Validate())
	})

	t.Run("creator not participant", func(t *testing.T) {
		e := base()
		e.ParticipantIDs = UintList{2, 3}
		assert.Error(t, e.Validate())
	})

	t.Run("attendee not participant", func(t *testing.T) {
		e := base()
		e.AttendeeIDs = UintList{4}
		assert.Error(t, e.Validate())
	})

	t.Run("end before start", func(t *testing.T) {
		e := base()
		e.EndTime = e.StartTime.Add(-time.Hour)
		assert.Error(t, e.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		e := base()
		e.Title = ""
		assert.Error(t, e.Validate())
	})
}

func TestComputeSearchTerms(t *testing.T) {
	t.Parallel()

	terms := ComputeSearchTerms("cheap_chef", "Keisha Brown")
	assert.Contains(t, terms, "cheap_chef")
	assert.Contains(t, terms, "keisha brown")
	assert.Contains(t, terms, "keisha")
	assert.Contains(t, terms, "brown")

	// no duplicates when username matches a name token
	terms = ComputeSearchTerms("keisha", "Keisha")
	assert.Equal(t, StringList{"keisha"}, terms)
}

func TestSavedItemID(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1756600000000)
	assert.Equal(t, "ackee-saltfish-1756600000000", SavedItemID("ackee-saltfish", at))
}

func TestUintListHelpers(t *testing.T) {
	t.Parallel()

	l := UintList{1, 2, 3}
	assert.True(t, l.Contains(2))
	assert.False(t, l.Contains(9))
	assert.Equal(t, UintList{1, 3}, l.Without(2))
	assert.Equal(t, UintList{1, 2, 3}, l.Without(9))
}
