package repository

import (
	"context"
	"errors"

	"cheapbite/internal/models"

	"gorm.io/gorm"
)

// SavedItemRepository persists generated content a user chose to keep.
type SavedItemRepository interface {
	Create(ctx context.Context, item *models.SavedItem) error
	GetByID(ctx context.Context, userID uint, id string) (*models.SavedItem, error)
	ListByUser(ctx context.Context, userID uint, kind string, limit, offset int) ([]models.SavedItem, error)
	Delete(ctx context.Context, userID uint, id string) error
}

type savedItemRepository struct {
	db *gorm.DB
}

// NewSavedItemRepository creates a new saved item repository
func NewSavedItemRepository(db *gorm.DB) SavedItemRepository {
	return &savedItemRepository{db: db}
}

func (r *savedItemRepository) Create(ctx context.Context, item *models.SavedItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("item already saved")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *savedItemRepository) GetByID(ctx context.Context, userID uint, id string) (*models.SavedItem, error) {
	var item models.SavedItem
	if err := readDB(r.db).WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("SavedItem", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *savedItemRepository) ListByUser(ctx context.Context, userID uint, kind string, limit, offset int) ([]models.SavedItem, error) {
	q := readDB(r.db).WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var items []models.SavedItem
	if err := q.Order("saved_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *savedItemRepository) Delete(ctx context.Context, userID uint, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SavedItem{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("SavedItem", id)
	}
	return nil
}
