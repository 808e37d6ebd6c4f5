package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createPostHTTP creates a post through the API and returns its ID.
func createPostHTTP(t *testing.T, app *fiber.App, token, content string) uint {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"content": content,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &body)
	return body.ID
}

func TestCreatePost_StampsAuthorSnapshot(t *testing.T) {
	_, app := setupTestServer(t)
	token, userID := signupUser(t, app, uniqueEmail("poster"))

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"content":  "Red beans and rice for under five dollars.",
		"location": "New Orleans",
		"tags":     []string{"budget", "one-pot"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID             uint     `json:"id"`
		AuthorID       uint     `json:"author_id"`
		AuthorUsername string   `json:"author_username"`
		Tags           []string `json:"tags"`
		IsPublic       bool     `json:"is_public"`
	}
	decodeBody(t, resp, &body)
	assert.NotZero(t, body.ID)
	assert.Equal(t, userID, body.AuthorID)
	assert.NotEmpty(t, body.AuthorUsername)
	assert.Equal(t, []string{"budget", "one-pot"}, body.Tags)
	assert.True(t, body.IsPublic)
}

func TestCreatePost_RejectsAttachmentMismatch(t *testing.T) {
	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, uniqueEmail("attach"))

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"content":         "tagged but empty",
		"attachment_type": "recipe",
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetFeed_PublicAndOrdered(t *testing.T) {
	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, uniqueEmail("feeder"))

	first := createPostHTTP(t, app, token, "first post")
	second := createPostHTTP(t, app, token, "second post")

	// feed is public, no token required
	resp := doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []struct {
			ID uint `json:"id"`
		} `json:"posts"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Posts, 2)
	// newest first
	assert.Equal(t, second, body.Posts[0].ID)
	assert.Equal(t, first, body.Posts[1].ID)
}

func TestToggleLike_RoundTrip(t *testing.T) {
	_, app := setupTestServer(t)
	authorToken, _ := signupUser(t, app, uniqueEmail("author"))
	likerToken, _ := signupUser(t, app, uniqueEmail("liker"))

	postID := createPostHTTP(t, app, authorToken, "braised cabbage")
	likePath := fmt.Sprintf("/api/posts/%d/like", postID)

	resp := doJSON(t, app, http.MethodPost, likePath, likerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Liked bool `json:"liked"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Liked)

	// liked flag surfaces on the single post view for the liker
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), likerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var post struct {
		Liked     bool `json:"liked"`
		LikeCount int  `json:"like_count"`
	}
	decodeBody(t, resp, &post)
	assert.True(t, post.Liked)
	assert.Equal(t, 1, post.LikeCount)

	// toggle back off
	resp = doJSON(t, app, http.MethodPost, likePath, likerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.False(t, body.Liked)
}

func TestComments_RoundTrip(t *testing.T) {
	_, app := setupTestServer(t)
	authorToken, _ := signupUser(t, app, uniqueEmail("op"))
	commenterToken, commenterID := signupUser(t, app, uniqueEmail("commenter"))

	postID := createPostHTTP(t, app, authorToken, "stew night")

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", postID), commenterToken, map[string]any{
		"text": "Looks delicious!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment struct {
		ID       uint   `json:"id"`
		AuthorID uint   `json:"author_id"`
		Text     string `json:"text"`
	}
	decodeBody(t, resp, &comment)
	assert.Equal(t, commenterID, comment.AuthorID)
	assert.Equal(t, "Looks delicious!", comment.Text)

	// listing is public
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", postID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Comments []struct {
			ID uint `json:"id"`
		} `json:"comments"`
	}
	decodeBody(t, resp, &list)
	require.Len(t, list.Comments, 1)

	// only the comment author may delete
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comments/%d", postID, comment.ID), authorToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comments/%d", postID, comment.ID), commenterToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestDeletePost_AuthorOnly(t *testing.T) {
	_, app := setupTestServer(t)
	authorToken, _ := signupUser(t, app, uniqueEmail("owner"))
	strangerToken, _ := signupUser(t, app, uniqueEmail("stranger"))

	postID := createPostHTTP(t, app, authorToken, "soon deleted")
	path := fmt.Sprintf("/api/posts/%d", postID)

	resp := doJSON(t, app, http.MethodDelete, path, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, path, authorToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetUserPosts(t *testing.T) {
	_, app := setupTestServer(t)
	token, userID := signupUser(t, app, uniqueEmail("prolific"))
	otherToken, _ := signupUser(t, app, uniqueEmail("quiet"))

	createPostHTTP(t, app, token, "mine one")
	createPostHTTP(t, app, token, "mine two")
	createPostHTTP(t, app, otherToken, "not mine")

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/posts", userID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []struct {
			AuthorID uint `json:"author_id"`
		} `json:"posts"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Posts, 2)
	for _, p := range body.Posts {
		assert.Equal(t, userID, p.AuthorID)
	}
}
