package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"unicode/utf8"

	"cheapbite/internal/models"
	"cheapbite/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	notifs   *NotificationService
}

type CreatePostInput struct {
	AuthorID         uint
	Content          string
	Location         string
	Tags             []string
	ExternalVideoURL string
	MediaURL         string
	AttachmentType   string
	Attachment       json.RawMessage
	IsPublic         *bool
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifs *NotificationService,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		notifs:   notifs,
	}
}

// snippetLen bounds the post excerpt copied onto notifications.
const snippetLen = 120

func snippet(s string) string {
	if len(s) <= snippetLen {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character mid-sequence.
	cut := snippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxContentLen = 10000
	const maxTags = 10

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}
	if len(in.Tags) > maxTags {
		return nil, models.NewValidationError("Too many tags (max 10)")
	}
	if in.ExternalVideoURL != "" {
		if _, err := url.ParseRequestURI(in.ExternalVideoURL); err != nil {
			return nil, models.NewValidationError("external_video_url must be a valid URL")
		}
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Content:          content,
		Location:         in.Location,
		Tags:             models.StringList(in.Tags),
		ExternalVideoURL: in.ExternalVideoURL,
		MediaURL:         in.MediaURL,
		AttachmentType:   in.AttachmentType,
		Attachment:       in.Attachment,
		IsPublic:         true,
		SearchTerms:      models.ComputeSearchTerms(author.Username, author.DisplayName),
	}
	if in.IsPublic != nil {
		post.IsPublic = *in.IsPublic
	}
	post.SetAuthor(author)

	if err := post.ValidateAttachment(); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.ListFeed(ctx, limit, offset, currentUserID)
}

func (s *PostService) ListUserPosts(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset, currentUserID)
}

// DeletePost soft-deletes the post. Only the author may delete; likes and
// comments are left in place.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("Only the author can delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike likes the post when the caller has no like row and unlikes
// otherwise. Returns the liked state afterwards. A new like fans out a like
// notification to the author, suppressed when the liker is the author.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return false, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if liked {
		if _, err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return false, err
		}
		return false, nil
	}

	created, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if created {
		liker, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return true, nil
		}
		n := &models.Notification{
			RecipientID: post.AuthorID,
			Type:        models.NotificationLike,
			PostID:      post.ID,
			PostContent: snippet(post.Content),
		}
		n.SetSender(liker)
		s.notifs.Fanout(ctx, n)
	}
	return true, nil
}
