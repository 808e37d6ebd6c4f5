package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMyProfile(t *testing.T) {
	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, uniqueEmail("profile"))

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", token, map[string]any{
		"display_name": "Chef Ramona",
		"bio":          "Cooking on a shoestring.",
		"accent_color": "#ff7f50",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
		AccentColor string `json:"accent_color"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Chef Ramona", body.DisplayName)
	assert.Equal(t, "Cooking on a shoestring.", body.Bio)
	assert.Equal(t, "#ff7f50", body.AccentColor)

	// empty string clears, omitted fields stay untouched
	resp = doJSON(t, app, http.MethodPut, "/api/users/me", token, map[string]any{
		"bio": "",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Bio)
	assert.Equal(t, "Chef Ramona", body.DisplayName)
}

func TestSearchUsers_FindsByDisplayNamePrefix(t *testing.T) {
	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, uniqueEmail("searcher"))
	otherToken, otherID := signupUser(t, app, uniqueEmail("target"))

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", otherToken, map[string]any{
		"display_name": "Paprika Pete",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/users/search?q=papri", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Users []struct {
			ID uint `json:"id"`
		} `json:"users"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Users, 1)
	assert.Equal(t, otherID, body.Users[0].ID)
}

func TestSearchUsers_RequiresQuery(t *testing.T) {
	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, uniqueEmail("noq"))

	resp := doJSON(t, app, http.MethodGet, "/api/users/search", token, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToggleFollow(t *testing.T) {
	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, uniqueEmail("follower"))
	_, targetID := signupUser(t, app, uniqueEmail("followee"))

	followPath := fmt.Sprintf("/api/users/%d/follow", targetID)

	resp := doJSON(t, app, http.MethodPost, followPath, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Following bool `json:"following"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Following)

	// second toggle unfollows
	resp = doJSON(t, app, http.MethodPost, followPath, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.False(t, body.Following)
}

func TestToggleFollow_SelfRejected(t *testing.T) {
	_, app := setupTestServer(t)
	token, id := signupUser(t, app, uniqueEmail("narcissus"))

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", id), token, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetFollowers_ReturnsPublicProfiles(t *testing.T) {
	_, app := setupTestServer(t)
	followerToken, followerID := signupUser(t, app, uniqueEmail("fan"))
	targetToken, targetID := signupUser(t, app, uniqueEmail("star"))

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", targetID), followerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", targetID), targetToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Followers []map[string]any `json:"followers"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Followers, 1)
	assert.EqualValues(t, followerID, body.Followers[0]["id"])
	// private fields never leak into the public profile
	assert.NotContains(t, body.Followers[0], "email")
}

func TestGetUserProfile_NotFound(t *testing.T) {
	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, uniqueEmail("viewer"))

	resp := doJSON(t, app, http.MethodGet, "/api/users/99999", token, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
