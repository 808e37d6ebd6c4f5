package service

import (
	"context"

	"cheapbite/internal/models"
	"cheapbite/internal/repository"
)

// FollowService provides follow-graph business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifs     *NotificationService
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifs *NotificationService,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		notifs:     notifs,
	}
}

// ToggleFollow follows the target when no edge exists and unfollows
// otherwise. Returns whether the caller is following the target afterwards.
// A new follow fans out a follow notification to the target.
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if followerID == followeeID {
		return false, models.NewValidationError("Cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return false, err
	}

	following, err := s.followRepo.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if following {
		if _, err := s.followRepo.Unfollow(ctx, followerID, followeeID); err != nil {
			return false, err
		}
		return false, nil
	}

	created, err := s.followRepo.Follow(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if created {
		follower, err := s.userRepo.GetByID(ctx, followerID)
		if err != nil {
			return true, nil
		}
		n := &models.Notification{
			RecipientID: followeeID,
			Type:        models.NotificationFollow,
		}
		n.SetSender(follower)
		s.notifs.Fanout(ctx, n)
	}
	return true, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.PublicProfile, error) {
	users, err := s.followRepo.ListFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

func (s *FollowService) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.PublicProfile, error) {
	users, err := s.followRepo.ListFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

func publicProfiles(users []models.User) []models.PublicProfile {
	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].PublicProfile())
	}
	return profiles
}
