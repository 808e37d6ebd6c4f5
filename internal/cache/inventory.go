package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix          = "user:%d"
	ProfileKeyPrefix       = "profile:%s"
	PostKeyPrefix          = "post:%d"
	FeedKeyPrefix          = "feed:%d:%d"
	ConversationsKeyPrefix = "conversations:%d"
	NotificationsKeyPrefix = "notifications:%d:unread"
)

const (
	UserTTL          = 5 * time.Minute
	ProfileTTL       = 5 * time.Minute
	PostTTL          = 30 * time.Minute
	FeedTTL          = 1 * time.Minute
	ConversationsTTL = 2 * time.Minute
	NotificationsTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func FeedKey(limit, offset int) string {
	return fmt.Sprintf(FeedKeyPrefix, limit, offset)
}

func ConversationsKey(userID uint) string {
	return fmt.Sprintf(ConversationsKeyPrefix, userID)
}

func NotificationsKey(userID uint) string {
	return fmt.Sprintf(NotificationsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateProfile(ctx context.Context, username string) {
	Invalidate(ctx, ProfileKey(username))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateFeed drops all cached feed pages.
func InvalidateFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateConversations(ctx context.Context, userID uint) {
	Invalidate(ctx, ConversationsKey(userID))
}

func InvalidateNotifications(ctx context.Context, userID uint) {
	Invalidate(ctx, NotificationsKey(userID))
}
