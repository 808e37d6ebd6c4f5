package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"cheapbite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	ListForUser(ctx context.Context, userID uint, includePast bool, limit, offset int) ([]models.Event, error)
	Mutate(ctx context.Context, id uint, fn func(*models.Event) error) (*models.Event, error)
	Delete(ctx context.Context, id uint) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := readDB(r.db).WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Event", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

// ListForUser returns events where the user is a participant. Membership
// lives in a JSON column, so the filter matches the serialized ID; results
// are re-checked in memory to rule out substring false positives.
func (r *eventRepository) ListForUser(ctx context.Context, userID uint, includePast bool, limit, offset int) ([]models.Event, error) {
	var events []models.Event
	q := readDB(r.db).WithContext(ctx).
		Where("participant_ids LIKE ?", "%"+jsonIDToken(userID)+"%")
	if !includePast {
		q = q.Where("end_time >= ?", time.Now())
	}
	if err := q.Order("start_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	out := events[:0]
	for _, e := range events {
		if e.ParticipantIDs.Contains(userID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// jsonIDToken is a coarse match token for an ID inside the serialized JSON
// array. It can match other IDs sharing digits, hence the in-memory recheck.
func jsonIDToken(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Mutate loads the event under a row lock, applies fn, and saves, all in one
// transaction. RSVPs rewrite the whole attendee list, so two of them racing on
// a plain read-then-save would drop one of the writes. SQLite has no FOR
// UPDATE; its single-writer lock covers the same ground there.
func (r *eventRepository) Mutate(ctx context.Context, id uint, fn func(*models.Event) error) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&event, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Event", id)
			}
			return models.NewInternalError(err)
		}
		if err := fn(&event); err != nil {
			return err
		}
		if err := tx.Save(&event).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Event{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
