package repository

import (
	"context"
	"testing"

	"cheapbite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendText(t *testing.T, repo ConversationRepository, sender, recipient *models.User, text string) *models.Message {
	t.Helper()
	msg := &models.Message{
		ThreadID: models.ThreadID(sender.ID, recipient.ID),
		SenderID: sender.ID,
		Text:     text,
	}
	require.NoError(t, repo.SendMessage(context.Background(), msg, sender, recipient))
	return msg
}

func TestConversationRepository_SendMessageUpsertsBothSides(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	sendText(t, repo, alice, bob, "got a good plantain recipe?")
	sendText(t, repo, bob, alice, "sure, one sec")

	aliceConvos, err := repo.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceConvos, 1)
	assert.Equal(t, bob.ID, aliceConvos[0].PeerID)
	assert.Equal(t, "sure, one sec", aliceConvos[0].LastMessage)

	bobConvos, err := repo.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobConvos, 1)
	assert.Equal(t, alice.ID, bobConvos[0].PeerID)
	assert.Equal(t, "sure, one sec", bobConvos[0].LastMessage)
}

func TestConversationRepository_ListMessagesAscending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	sendText(t, repo, alice, bob, "one")
	sendText(t, repo, bob, alice, "two")
	sendText(t, repo, alice, bob, "three")

	msgs, err := repo.ListMessages(ctx, models.ThreadID(bob.ID, alice.ID), 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "three", msgs[2].Text)
}

func TestConversationRepository_MarkThreadRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	thread := models.ThreadID(alice.ID, bob.ID)

	sendText(t, repo, alice, bob, "hey")
	sendText(t, repo, bob, alice, "hi")

	// bob reads the thread: only alice's message flips
	require.NoError(t, repo.MarkThreadRead(ctx, thread, bob.ID))

	msgs, err := repo.ListMessages(ctx, thread, 10, 0)
	require.NoError(t, err)
	for _, m := range msgs {
		if m.SenderID == alice.ID {
			assert.True(t, m.Read)
		} else {
			assert.False(t, m.Read)
		}
	}
}
