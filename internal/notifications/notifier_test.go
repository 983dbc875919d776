package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"paceup/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotificationRepo records created notifications in memory.
type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*models.Notification
	fail    bool
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return models.NewInternalError(assert.AnError)
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(context.Context, string, int, int) ([]*models.Notification, error) {
	return nil, nil
}
func (f *fakeNotificationRepo) UnreadCount(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeNotificationRepo) MarkRead(context.Context, string, string) error     { return nil }
func (f *fakeNotificationRepo) MarkAllRead(context.Context, string) error          { return nil }

func TestNotify_WritesRowWithNilRedis(t *testing.T) {
	repo := &fakeNotificationRepo{}
	n := NewNotifier(repo, nil)

	n.Notify(context.Background(), "user-1", models.NotifyBlogApproved, "Post approved", "Your post is live", nil)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "user-1", repo.created[0].UserID)
	assert.Equal(t, models.NotifyBlogApproved, repo.created[0].Type)
}

func TestNotify_SwallowsRepositoryFailure(t *testing.T) {
	repo := &fakeNotificationRepo{fail: true}
	n := NewNotifier(repo, nil)

	// Must not panic or propagate: a notification problem cannot fail the
	// transition that triggered it.
	n.Notify(context.Background(), "user-1", models.NotifyEventRejected, "Event rejected", "See reasons", models.JSONMap{
		"reasons": []string{"incomplete_details"},
	})
	assert.Empty(t, repo.created)
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:abc-123", UserChannel("abc-123"))
}

func TestNotify_PublishesToUserChannel(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	repo := &fakeNotificationRepo{}
	n := NewNotifier(repo, rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := rdb.Subscribe(ctx, UserChannel("user-9"))
	defer func() { _ = sub.Close() }()

	// Subscribe setup races with the first publish; give miniredis a beat.
	time.Sleep(20 * time.Millisecond)

	n.Notify(context.Background(), "user-9", models.NotifyPostLiked, "New like", "Someone liked your post", nil)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, UserChannel("user-9"), msg.Channel)
		assert.Contains(t, msg.Payload, models.NotifyPostLiked)
	case <-time.After(time.Second):
		t.Fatal("no message published to the user channel")
	}
	require.Len(t, repo.created, 1)
}
