package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"cheapbite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	listFeedFn        func(context.Context, int, int, uint) ([]*models.Post, error)
	listByAuthorFn    func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	deleteFn          func(context.Context, uint) error
	likeFn            func(context.Context, uint, uint) (bool, error)
	unlikeFn          func(context.Context, uint, uint) (bool, error)
	isLikedFn         func(context.Context, uint, uint) (bool, error)
	getLikedPostIDsFn func(context.Context, uint, []uint) ([]uint, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) ListFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFeedFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	return s.getLikedPostIDsFn(ctx, userID, postIDs)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 2, Content: "smoked jerk chicken"}, nil
		},
		listFeedFn:        func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn:    func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		likeFn:            func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:          func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isLikedFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		getLikedPostIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
	}
}

func newPostService(t *testing.T, posts *postRepoStub) (*PostService, *[]*models.Notification) {
	t.Helper()
	notifs, captured := captureNotifs(t)
	return NewPostService(posts, noopUserRepo(), notifs), captured
}

func TestPostService_CreatePostStampsAuthorSnapshot(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	svc, _ := newPostService(t, repo)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Content:  "ackee and saltfish for breakfast",
		Tags:     []string{"breakfast"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(1), post.AuthorID)
	assert.Equal(t, "testuser", post.AuthorUsername)
	assert.Equal(t, 0, post.LikeCount)
	assert.True(t, post.IsPublic)
}

func TestPostService_CreatePostValidation(t *testing.T) {
	svc, _ := newPostService(t, noopPostRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"empty content", CreatePostInput{AuthorID: 1, Content: "   "}},
		{"content too long", CreatePostInput{AuthorID: 1, Content: strings.Repeat("x", 10001)}},
		{"too many tags", CreatePostInput{AuthorID: 1, Content: "hi", Tags: make([]string, 11)}},
		{"bad video url", CreatePostInput{AuthorID: 1, Content: "hi", ExternalVideoURL: "not a url"}},
		{"unknown attachment type", CreatePostInput{AuthorID: 1, Content: "hi", AttachmentType: "poll", Attachment: json.RawMessage(`{}`)}},
		{"payload without type", CreatePostInput{AuthorID: 1, Content: "hi", Attachment: json.RawMessage(`{"title":"x"}`)}},
		{"type without payload", CreatePostInput{AuthorID: 1, Content: "hi", AttachmentType: models.AttachmentRecipe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.in)
			require.Error(t, err)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestPostService_ToggleLikeFansOutToAuthor(t *testing.T) {
	svc, captured := newPostService(t, noopPostRepo())

	liked, err := svc.ToggleLike(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, liked)

	require.Len(t, *captured, 1)
	n := (*captured)[0]
	assert.Equal(t, models.NotificationLike, n.Type)
	assert.Equal(t, uint(2), n.RecipientID)
	assert.Equal(t, uint(10), n.PostID)
	assert.Equal(t, "smoked jerk chicken", n.PostContent)
}

func TestPostService_ToggleLikeSelfLikeSuppressed(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Content: "my own post"}, nil
	}
	svc, captured := newPostService(t, repo)

	liked, err := svc.ToggleLike(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, liked, "self-like still counts")
	assert.Empty(t, *captured, "no notification for liking your own post")
}

func TestPostService_ToggleLikeUnlikesExistingLike(t *testing.T) {
	repo := noopPostRepo()
	repo.isLikedFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
	svc, captured := newPostService(t, repo)

	liked, err := svc.ToggleLike(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, *captured)
}

func TestSnippetKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", snippet("short"))

	long := strings.Repeat("a", snippetLen-1) + "日本語"
	cut := snippet(long)
	assert.LessOrEqual(t, len(cut), snippetLen)
	assert.True(t, utf8.ValidString(cut), "cut must not split a multi-byte rune")
	assert.Equal(t, strings.Repeat("a", snippetLen-1), cut)
}

func TestPostService_DeletePostAuthorOnly(t *testing.T) {
	svc, _ := newPostService(t, noopPostRepo())

	err := svc.DeletePost(context.Background(), 1, 10) // author is 2
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	require.NoError(t, svc.DeletePost(context.Background(), 2, 10))
}
