package service

import (
	"context"
	"testing"

	"cheapbite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn        func(context.Context, uint, uint) (bool, error)
	unfollowFn      func(context.Context, uint, uint) (bool, error)
	isFollowingFn   func(context.Context, uint, uint) (bool, error)
	listFollowersFn func(context.Context, uint, int, int) ([]models.User, error)
	listFollowingFn func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *followRepoStub) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.unfollowFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.listFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.listFollowingFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:        func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unfollowFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn:   func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listFollowersFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		listFollowingFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func TestFollowService_ToggleFollowRejectsSelf(t *testing.T) {
	notifs, _ := captureNotifs(t)
	svc := NewFollowService(noopFollowRepo(), noopUserRepo(), notifs)

	_, err := svc.ToggleFollow(context.Background(), 1, 1)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestFollowService_ToggleFollowFansOut(t *testing.T) {
	notifs, captured := captureNotifs(t)
	svc := NewFollowService(noopFollowRepo(), noopUserRepo(), notifs)

	following, err := svc.ToggleFollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, following)

	require.Len(t, *captured, 1)
	n := (*captured)[0]
	assert.Equal(t, models.NotificationFollow, n.Type)
	assert.Equal(t, uint(2), n.RecipientID)
	assert.Equal(t, uint(1), n.SenderID)
	assert.Equal(t, "testuser", n.SenderUsername, "sender snapshot captured at fan-out time")
}

func TestFollowService_ToggleFollowUnfollowsExistingEdge(t *testing.T) {
	repo := noopFollowRepo()
	repo.isFollowingFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
	unfollowed := false
	repo.unfollowFn = func(_ context.Context, _, _ uint) (bool, error) {
		unfollowed = true
		return true, nil
	}
	notifs, captured := captureNotifs(t)
	svc := NewFollowService(repo, noopUserRepo(), notifs)

	following, err := svc.ToggleFollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, following)
	assert.True(t, unfollowed)
	assert.Empty(t, *captured, "unfollow must not notify")
}

func TestFollowService_ToggleFollowMissingTarget(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("user", id)
	}
	notifs, _ := captureNotifs(t)
	svc := NewFollowService(noopFollowRepo(), users, notifs)

	_, err := svc.ToggleFollow(context.Background(), 1, 99)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFollowService_ListFollowersReturnsPublicProfiles(t *testing.T) {
	repo := noopFollowRepo()
	repo.listFollowersFn = func(_ context.Context, _ uint, _, _ int) ([]models.User, error) {
		return []models.User{{ID: 3, Username: "ada", Email: "ada@example.com"}}, nil
	}
	notifs, _ := captureNotifs(t)
	svc := NewFollowService(repo, noopUserRepo(), notifs)

	profiles, err := svc.ListFollowers(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "ada", profiles[0].Username)
}
