package service

import (
	"context"

	"paceup/internal/models"
	"paceup/internal/notifications"
	"paceup/internal/observability"
	"paceup/internal/repository"
)

// AdminService hosts the moderation queue operations. Status transitions
// commit first; the matching notification is written after, best-effort, so
// a notification failure never rolls back a decision.
type AdminService struct {
	posts         repository.PostRepository
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	users         repository.UserRepository
	notifier      *notifications.Notifier
}

// ModerationInput carries the optional rejection context sent alongside a
// status update.
type ModerationInput struct {
	Reasons     []string `json:"reasons"`
	Description string   `json:"description"`
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	Users                int64 `json:"users"`
	PendingBlogPosts     int64 `json:"pending_blog_posts"`
	ApprovedBlogPosts    int64 `json:"approved_blog_posts"`
	PendingEvents        int64 `json:"pending_events"`
	ApprovedEvents       int64 `json:"approved_events"`
	PendingRegistrations int64 `json:"pending_registrations"`
}

func NewAdminService(
	posts repository.PostRepository,
	events repository.EventRepository,
	registrations repository.RegistrationRepository,
	users repository.UserRepository,
	notifier *notifications.Notifier,
) *AdminService {
	return &AdminService{
		posts:         posts,
		events:        events,
		registrations: registrations,
		users:         users,
		notifier:      notifier,
	}
}

// validTransition gates moderation moves: approve and reject only apply to
// pending items, and nothing leaves a decided state.
func validTransition(current, next string) error {
	switch next {
	case models.StatusApproved, models.StatusRejected:
		if current != models.StatusPending {
			return models.NewConflictError("Only pending items can be moderated")
		}
		return nil
	default:
		return models.NewValidationError("Status must be approved or rejected")
	}
}

func (s *AdminService) ListPosts(ctx context.Context, status string, limit, offset int) ([]*models.Post, error) {
	if status == "" {
		status = models.StatusPending
	}
	return s.posts.List(ctx, repository.PostFilter{Status: status, Limit: limit, Offset: offset}, "")
}

func (s *AdminService) SetPostStatus(ctx context.Context, postID, next string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID, "")
	if err != nil {
		return nil, err
	}
	if err := validTransition(post.Status, next); err != nil {
		return nil, err
	}
	if err := s.posts.UpdateStatus(ctx, postID, next); err != nil {
		return nil, err
	}
	observability.ModerationTransitions.WithLabelValues("post", next).Inc()
	post.Status = next

	notifType := models.NotifyBlogApproved
	title := "Your blog post was approved"
	if next == models.StatusRejected {
		notifType = models.NotifyBlogRejected
		title = "Your blog post was rejected"
	}
	s.notifier.Notify(ctx, post.UserID, notifType, title, post.Title,
		models.JSONMap{"post_id": post.ID})
	return post, nil
}

func (s *AdminService) ListEvents(ctx context.Context, status string, limit, offset int) ([]*models.Event, error) {
	if status == "" {
		status = models.StatusPending
	}
	return s.events.List(ctx, repository.EventFilter{Status: status, Limit: limit, Offset: offset})
}

func (s *AdminService) SetEventStatus(ctx context.Context, eventID, next string, in ModerationInput) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := validTransition(event.Status, next); err != nil {
		return nil, err
	}
	if err := s.events.UpdateStatus(ctx, eventID, next); err != nil {
		return nil, err
	}
	observability.ModerationTransitions.WithLabelValues("event", next).Inc()
	event.Status = next

	notifType := models.NotifyEventApproved
	title := "Your event was approved"
	if next == models.StatusRejected {
		notifType = models.NotifyEventRejected
		title = "Your event was rejected"
	}
	// Rejection context rides in the notification metadata; it is not stored
	// on the event itself.
	metadata := models.JSONMap{"event_id": event.ID}
	if next == models.StatusRejected {
		if len(in.Reasons) > 0 {
			metadata["reasons"] = in.Reasons
		}
		if in.Description != "" {
			metadata["description"] = in.Description
		}
	}
	s.notifier.Notify(ctx, event.OrganizerID, notifType, title, event.Title, metadata)
	return event, nil
}

func (s *AdminService) ListRegistrations(ctx context.Context, status string, limit, offset int) ([]*models.EventRegistration, error) {
	if status == "" {
		status = models.StatusPending
	}
	return s.registrations.List(ctx, repository.RegistrationFilter{Status: status, Limit: limit, Offset: offset})
}

// ListRegistrationsWithPayments joins the successful payment amount onto
// each registration for the admin finance view.
func (s *AdminService) ListRegistrationsWithPayments(ctx context.Context, status string, limit, offset int) ([]*models.EventRegistration, error) {
	if status == "" {
		status = "all"
	}
	return s.registrations.ListWithPayments(ctx, repository.RegistrationFilter{Status: status, Limit: limit, Offset: offset})
}

func (s *AdminService) SetRegistrationStatus(ctx context.Context, regID, next string, in ModerationInput) (*models.EventRegistration, error) {
	reg, err := s.registrations.GetByID(ctx, regID)
	if err != nil {
		return nil, err
	}
	if err := validTransition(reg.Status, next); err != nil {
		return nil, err
	}

	var reasons models.StringList
	note := ""
	if next == models.StatusRejected {
		reasons = models.StringList(in.Reasons)
		note = in.Description
	}
	if err := s.registrations.UpdateStatus(ctx, regID, next, reasons, note); err != nil {
		return nil, err
	}
	observability.ModerationTransitions.WithLabelValues("registration", next).Inc()
	reg.Status = next
	reg.RejectionReasons = reasons
	reg.RejectionNote = note

	notifType := models.NotifyRegistrationApproved
	title := "Your event registration was approved"
	if next == models.StatusRejected {
		notifType = models.NotifyRegistrationRejected
		title = "Your event registration was rejected"
	}
	metadata := models.JSONMap{"event_id": reg.EventID, "registration_id": reg.ID}
	if len(reasons) > 0 {
		metadata["reasons"] = []string(reasons)
	}
	s.notifier.Notify(ctx, reg.UserID, notifType, title, reg.EventTitle, metadata)
	return reg, nil
}

func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}
	var err error

	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingBlogPosts, err = s.posts.CountByStatus(ctx, models.PostTypeBlog, models.StatusPending); err != nil {
		return nil, err
	}
	if stats.ApprovedBlogPosts, err = s.posts.CountByStatus(ctx, models.PostTypeBlog, models.StatusApproved); err != nil {
		return nil, err
	}
	if stats.PendingEvents, err = s.events.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	if stats.ApprovedEvents, err = s.events.CountByStatus(ctx, models.StatusApproved); err != nil {
		return nil, err
	}
	if stats.PendingRegistrations, err = s.registrations.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AdminService) SetUserRole(ctx context.Context, userID, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.NewValidationError("Role must be user or admin")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}
