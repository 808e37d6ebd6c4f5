package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cheapbite/internal/models"
	"cheapbite/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedItemRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSavedItemRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "saver")
	other := seedUser(t, db, "other")

	title := "Ackee & Saltfish"
	item := &models.SavedItem{
		ID:      models.SavedItemID(validation.Slug(title), time.Now()),
		UserID:  user.ID,
		Kind:    models.SavedRecipe,
		Title:   title,
		Payload: json.RawMessage(`{"title":"Ackee & Saltfish","ingredients":["ackee","salted cod"]}`),
		SavedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.GetByID(ctx, user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SavedRecipe, got.Kind)
	assert.JSONEq(t, string(item.Payload), string(got.Payload))

	// the item is scoped to its owner
	_, err = repo.GetByID(ctx, other.ID, item.ID)
	require.Error(t, err)

	list, err := repo.ListByUser(ctx, user.ID, models.SavedRecipe, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = repo.ListByUser(ctx, user.ID, models.SavedBeverage, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Delete(ctx, user.ID, item.ID))
	_, err = repo.GetByID(ctx, user.ID, item.ID)
	assert.Error(t, err)
}

func TestSavedItemRepository_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSavedItemRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "saver")
	at := time.Now()
	item := &models.SavedItem{
		ID:      models.SavedItemID("mauby", at),
		UserID:  user.ID,
		Kind:    models.SavedBeverage,
		Title:   "Mauby",
		Payload: json.RawMessage(`{"title":"Mauby"}`),
		SavedAt: at,
	}
	require.NoError(t, repo.Create(ctx, item))

	dup := *item
	err := repo.Create(ctx, &dup)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)
}
