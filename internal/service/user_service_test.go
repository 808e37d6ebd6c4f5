package service

import (
	"context"
	"strings"
	"testing"

	"cheapbite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn               func(context.Context, uint) (*models.User, error)
	getByEmailFn            func(context.Context, string) (*models.User, error)
	getByUsernameFn         func(context.Context, string) (*models.User, error)
	createWithReservationFn func(context.Context, *models.User) error
	updateProfileFn         func(context.Context, *models.User) error
	deleteFn                func(context.Context, uint) error
	searchFn                func(context.Context, string, int, int) ([]models.User, error)
	listFn                  func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) CreateWithReservation(ctx context.Context, user *models.User) error {
	return s.createWithReservationFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, user *models.User) error {
	return s.updateProfileFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) Search(ctx context.Context, prefix string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, prefix, limit, offset)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "testuser"}, nil
		},
		getByEmailFn:            func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:         func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createWithReservationFn: func(_ context.Context, _ *models.User) error { return nil },
		updateProfileFn:         func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:                func(_ context.Context, _ uint) error { return nil },
		searchFn:                func(_ context.Context, _ string, _, _ int) ([]models.User, error) { return nil, nil },
		listFn:                  func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func strptr(s string) *string { return &s }

func TestUserService_UpdateProfileRecomputesSearchTerms(t *testing.T) {
	repo := noopUserRepo()
	var saved *models.User
	repo.updateProfileFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:      1,
		DisplayName: strptr("Ada Lovelace"),
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "Ada Lovelace", user.DisplayName)
	assert.Contains(t, saved.SearchTerms, "ada")
	assert.Contains(t, saved.SearchTerms, "lovelace")
	assert.Contains(t, saved.SearchTerms, "testuser")
}

func TestUserService_UpdateProfileRejectsLongBio(t *testing.T) {
	svc := NewUserService(noopUserRepo())

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: 1,
		Bio:    strptr(strings.Repeat("x", 501)),
	})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserService_UpdateProfileLeavesNilFieldsAlone(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "testuser", Bio: "keep me", Tagline: "hello"}, nil
	}
	svc := NewUserService(repo)

	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:  1,
		Tagline: strptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "keep me", user.Bio)
	assert.Equal(t, "", user.Tagline, "empty string clears the field")
}

func TestUserService_SearchRequiresQuery(t *testing.T) {
	svc := NewUserService(noopUserRepo())

	_, err := svc.SearchUsers(context.Background(), "   ", 20, 0)
	require.Error(t, err)

	var got string
	repo := noopUserRepo()
	repo.searchFn = func(_ context.Context, prefix string, _, _ int) ([]models.User, error) {
		got = prefix
		return nil, nil
	}
	svc = NewUserService(repo)
	_, err = svc.SearchUsers(context.Background(), "  ChEf ", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "chef", got, "query is trimmed and lowercased")
}

func TestUserService_GetPublicProfileHidesPrivateFields(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "ada", Email: "ada@example.com", FollowerCount: 3}, nil
	}
	svc := NewUserService(repo)

	profile, err := svc.GetPublicProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, 3, profile.FollowerCount)
}
