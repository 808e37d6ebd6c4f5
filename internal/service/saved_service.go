package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"cheapbite/internal/models"
	"cheapbite/internal/repository"
	"cheapbite/internal/validation"
)

// SavedItemService keeps generated content a user chose to save.
type SavedItemService struct {
	savedRepo repository.SavedItemRepository
	now       func() time.Time
}

type SaveItemInput struct {
	UserID  uint
	Kind    string
	Title   string
	Payload json.RawMessage
}

func NewSavedItemService(savedRepo repository.SavedItemRepository) *SavedItemService {
	return &SavedItemService{savedRepo: savedRepo, now: time.Now}
}

// SaveItem stores a generated item under an ID derived from the title slug
// and the save timestamp.
func (s *SavedItemService) SaveItem(ctx context.Context, in SaveItemInput) (*models.SavedItem, error) {
	if !models.ValidSavedKind(in.Kind) {
		return nil, models.NewValidationError("Unknown saved item kind")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Payload) == 0 || !json.Valid(in.Payload) {
		return nil, models.NewValidationError("Payload must be a valid JSON document")
	}

	savedAt := s.now()
	item := &models.SavedItem{
		ID:      models.SavedItemID(validation.Slug(title), savedAt),
		UserID:  in.UserID,
		Kind:    in.Kind,
		Title:   title,
		Payload: in.Payload,
		SavedAt: savedAt,
	}
	if err := s.savedRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *SavedItemService) GetItem(ctx context.Context, userID uint, id string) (*models.SavedItem, error) {
	return s.savedRepo.GetByID(ctx, userID, id)
}

// ListItems returns the user's saved items, optionally filtered by kind.
func (s *SavedItemService) ListItems(ctx context.Context, userID uint, kind string, limit, offset int) ([]models.SavedItem, error) {
	if kind != "" && !models.ValidSavedKind(kind) {
		return nil, models.NewValidationError("Unknown saved item kind")
	}
	return s.savedRepo.ListByUser(ctx, userID, kind, limit, offset)
}

func (s *SavedItemService) DeleteItem(ctx context.Context, userID uint, id string) error {
	return s.savedRepo.Delete(ctx, userID, id)
}
