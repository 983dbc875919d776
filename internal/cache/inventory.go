package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix  = "user:%s"
	PostKeyPrefix  = "post:%s"
	EventKeyPrefix = "event:%s"
	StatsKeyPrefix = "stats:user:%s"
)

const (
	UserTTL  = 5 * time.Minute
	PostTTL  = 30 * time.Minute
	EventTTL = 10 * time.Minute
	StatsTTL = 2 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func EventKey(eventID string) string {
	return fmt.Sprintf(EventKeyPrefix, eventID)
}

func StatsKey(userID string) string {
	return fmt.Sprintf(StatsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	rdb.Del(ctx, keys...)
}

func InvalidateUser(ctx context.Context, rdb *redis.Client, userID string) {
	Invalidate(ctx, rdb, UserKey(userID), StatsKey(userID))
}

func InvalidatePost(ctx context.Context, rdb *redis.Client, postID string) {
	Invalidate(ctx, rdb, PostKey(postID))
}

func InvalidateEvent(ctx context.Context, rdb *redis.Client, eventID string) {
	Invalidate(ctx, rdb, EventKey(eventID))
}
