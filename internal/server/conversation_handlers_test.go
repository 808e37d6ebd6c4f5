package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_RoundTrip(t *testing.T) {
	_, app := setupTestServer(t)
	aToken, aID := signupUser(t, app, uniqueEmail("alice"))
	bToken, bID := signupUser(t, app, uniqueEmail("bea"))

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/conversations/%d/messages", bID), aToken, map[string]any{
		"text": "Got a good deal on tomatoes today",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var msg struct {
		ThreadID string `json:"thread_id"`
		SenderID uint   `json:"sender_id"`
		Text     string `json:"text"`
	}
	decodeBody(t, resp, &msg)
	assert.Equal(t, aID, msg.SenderID)
	assert.Contains(t, msg.ThreadID, "-")

	// both sides read the same thread regardless of direction
	for _, token := range []string{aToken, bToken} {
		peer := bID
		if token == bToken {
			peer = aID
		}
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/conversations/%d/messages", peer), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list struct {
			Messages []struct {
				Text string `json:"text"`
			} `json:"messages"`
		}
		decodeBody(t, resp, &list)
		require.Len(t, list.Messages, 1)
		assert.Equal(t, "Got a good deal on tomatoes today", list.Messages[0].Text)
	}
}

func TestSendMessage_SelfRejected(t *testing.T) {
	_, app := setupTestServer(t)
	token, id := signupUser(t, app, uniqueEmail("loner"))

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/conversations/%d/messages", id), token, map[string]any{
		"text": "hello me",
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConversationSummaries(t *testing.T) {
	_, app := setupTestServer(t)
	aToken, _ := signupUser(t, app, uniqueEmail("summary_a"))
	_, bID := signupUser(t, app, uniqueEmail("summary_b"))

	for _, text := range []string{"first", "second"} {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/conversations/%d/messages", bID), aToken, map[string]any{
			"text": text,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/conversations", aToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Conversations []struct {
			PeerID      uint   `json:"peer_id"`
			LastMessage string `json:"last_message"`
		} `json:"conversations"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Conversations, 1)
	assert.Equal(t, bID, body.Conversations[0].PeerID)
	assert.Equal(t, "second", body.Conversations[0].LastMessage)
}

func TestMarkThreadRead(t *testing.T) {
	_, app := setupTestServer(t)
	aToken, aID := signupUser(t, app, uniqueEmail("reader_a"))
	bToken, bID := signupUser(t, app, uniqueEmail("reader_b"))

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/conversations/%d/messages", bID), aToken, map[string]any{
		"text": "unread until marked",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/conversations/%d/read", aID), bToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/conversations/%d/messages", aID), bToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Messages []struct {
			Read bool `json:"read"`
		} `json:"messages"`
	}
	decodeBody(t, resp, &list)
	require.Len(t, list.Messages, 1)
	assert.True(t, list.Messages[0].Read)
}
