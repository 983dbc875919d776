package service

import (
	"context"
	"testing"

	"paceup/internal/models"
	"paceup/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdminService() (*AdminService, *postRepoStub, *eventRepoStub, *registrationRepoStub, *notificationRepoStub) {
	posts := noopPostRepo()
	events := noopEventRepo()
	regs := noopRegistrationRepo()
	notifier, notified := testNotifier()
	svc := NewAdminService(posts, events, regs, noopUserRepo(), notifier)
	return svc, posts, events, regs, notified
}

func TestSetPostStatus_ApproveNotifiesAuthor(t *testing.T) {
	svc, posts, _, _, notified := newTestAdminService()
	posts.getByIDFn = func(_ context.Context, id, _ string) (*models.Post, error) {
		return &models.Post{ID: id, UserID: "author-1", Title: "Trail shoes review", Status: models.StatusPending}, nil
	}

	post, err := svc.SetPostStatus(context.Background(), "post-1", models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, post.Status)

	require.Len(t, notified.created, 1)
	assert.Equal(t, "author-1", notified.created[0].UserID)
	assert.Equal(t, models.NotifyBlogApproved, notified.created[0].Type)
}

func TestSetPostStatus_OnlyFromPending(t *testing.T) {
	svc, posts, _, _, _ := newTestAdminService()
	posts.getByIDFn = func(_ context.Context, id, _ string) (*models.Post, error) {
		return &models.Post{ID: id, Status: models.StatusApproved}, nil
	}

	_, err := svc.SetPostStatus(context.Background(), "post-1", models.StatusRejected)
	assertAppErrorCode(t, err, "CONFLICT")

	_, err = svc.SetPostStatus(context.Background(), "post-1", "published")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestSetEventStatus_RejectNotifiesOrganizer(t *testing.T) {
	svc, _, events, _, notified := newTestAdminService()
	events.getByIDFn = func(_ context.Context, id string) (*models.Event, error) {
		e := openEvent(id, 0)
		e.Status = models.StatusPending
		return e, nil
	}

	event, err := svc.SetEventStatus(context.Background(), "event-1", models.StatusRejected, ModerationInput{
		Reasons:     []string{"duplicate_event"},
		Description: "Already listed under another organizer",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, event.Status)

	require.Len(t, notified.created, 1)
	assert.Equal(t, "organizer-1", notified.created[0].UserID)
	assert.Equal(t, models.NotifyEventRejected, notified.created[0].Type)
	// Rejection context travels in the notification, not on the event.
	assert.Equal(t, []string{"duplicate_event"}, notified.created[0].Metadata["reasons"])
	assert.Equal(t, "Already listed under another organizer", notified.created[0].Metadata["description"])
}

func TestSetRegistrationStatus_RejectKeepsReasons(t *testing.T) {
	svc, _, _, regs, notified := newTestAdminService()
	var gotReasons models.StringList
	var gotNote string
	regs.updateStatusFn = func(_ context.Context, _, _ string, reasons models.StringList, note string) error {
		gotReasons = reasons
		gotNote = note
		return nil
	}

	reg, err := svc.SetRegistrationStatus(context.Background(), "reg-1", models.StatusRejected, ModerationInput{
		Reasons:     []string{"payment_unverified"},
		Description: "Transfer reference missing",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StringList{"payment_unverified"}, gotReasons)
	assert.Equal(t, "Transfer reference missing", gotNote)
	assert.Equal(t, models.StatusRejected, reg.Status)

	require.Len(t, notified.created, 1)
	assert.Equal(t, models.NotifyRegistrationRejected, notified.created[0].Type)
	assert.Contains(t, notified.created[0].Metadata, "reasons")
}

func TestSetRegistrationStatus_ApproveDropsReasons(t *testing.T) {
	svc, _, _, regs, _ := newTestAdminService()
	regs.updateStatusFn = func(_ context.Context, _, _ string, reasons models.StringList, note string) error {
		assert.Empty(t, reasons)
		assert.Empty(t, note)
		return nil
	}

	_, err := svc.SetRegistrationStatus(context.Background(), "reg-1", models.StatusApproved, ModerationInput{
		Reasons: []string{"ignored"},
	})
	require.NoError(t, err)
}

func TestAdminListDefaults(t *testing.T) {
	svc, posts, _, regs, _ := newTestAdminService()

	posts.listFn = func(_ context.Context, filter repository.PostFilter, _ string) ([]*models.Post, error) {
		assert.Equal(t, models.StatusPending, filter.Status)
		return nil, nil
	}
	_, err := svc.ListPosts(context.Background(), "", 20, 0)
	require.NoError(t, err)

	regs.listWithPaymentsFn = func(_ context.Context, filter repository.RegistrationFilter) ([]*models.EventRegistration, error) {
		assert.Equal(t, "all", filter.Status)
		return []*models.EventRegistration{{ID: "reg-1"}}, nil
	}
	got, err := svc.ListRegistrationsWithPayments(context.Background(), "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStats(t *testing.T) {
	svc, posts, events, regs, _ := newTestAdminService()

	users := noopUserRepo()
	users.countFn = func(context.Context) (int64, error) { return 42, nil }
	svc.users = users

	posts.countByStatusFn = func(_ context.Context, postType, status string) (int64, error) {
		if postType == models.PostTypeBlog && status == models.StatusPending {
			return 3, nil
		}
		return 10, nil
	}
	events.countByStatusFn = func(_ context.Context, status string) (int64, error) { return 5, nil }
	regs.countByStatusFn = func(_ context.Context, status string) (int64, error) { return 7, nil }

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.Users)
	assert.Equal(t, int64(3), stats.PendingBlogPosts)
	assert.Equal(t, int64(10), stats.ApprovedBlogPosts)
	assert.Equal(t, int64(5), stats.PendingEvents)
	assert.Equal(t, int64(7), stats.PendingRegistrations)
}

func TestSetUserRole(t *testing.T) {
	svc, _, _, _, _ := newTestAdminService()

	user, err := svc.SetUserRole(context.Background(), "user-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = svc.SetUserRole(context.Background(), "user-1", "superuser")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}
