package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"paceup/internal/models"
	"paceup/internal/repository"
	"paceup/internal/validation"
)

type EventService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
}

type CreateEventInput struct {
	OrganizerID          string
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Location             string     `json:"location"`
	Date                 time.Time  `json:"date"`
	Time                 string     `json:"time"`
	RegistrationDeadline time.Time  `json:"registration_deadline"`
	MaxParticipants      int        `json:"max_participants"`
	Categories           []string   `json:"categories"`
	Price                int64      `json:"price"`
	BankAccountNumber    string     `json:"bank_account_number"`
	BankAccountName      string     `json:"bank_account_name"`
	BankName             string     `json:"bank_name"`
}

type UpdateEventInput struct {
	UserID               string
	EventID              string
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Location             string     `json:"location"`
	Date                 *time.Time `json:"date"`
	Time                 string     `json:"time"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	MaxParticipants      *int       `json:"max_participants"`
	Categories           []string   `json:"categories"`
	Price                *int64     `json:"price"`
}

func NewEventService(
	events repository.EventRepository,
	registrations repository.RegistrationRepository,
) *EventService {
	return &EventService{events: events, registrations: registrations}
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Date.IsZero() || in.RegistrationDeadline.IsZero() {
		return nil, models.NewValidationError("Date and registration deadline are required")
	}
	if !in.RegistrationDeadline.Before(in.Date) {
		return nil, models.NewValidationError("Registration deadline must be before the event date")
	}
	if in.MaxParticipants <= 0 {
		return nil, models.NewValidationError("Max participants must be positive")
	}
	if err := validation.ValidateCategories(in.Categories); err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("Price cannot be negative")
	}
	if in.Price > 0 && in.BankAccountNumber == "" {
		return nil, models.NewValidationError("Paid events need a bank account for transfers")
	}

	event := &models.Event{
		Title:                in.Title,
		Description:          in.Description,
		Location:             in.Location,
		Date:                 in.Date,
		Time:                 in.Time,
		RegistrationDeadline: in.RegistrationDeadline,
		MaxParticipants:      in.MaxParticipants,
		Categories:           models.StringList(in.Categories),
		Price:                in.Price,
		BankAccountNumber:    in.BankAccountNumber,
		BankAccountName:      in.BankAccountName,
		BankName:             in.BankName,
		Status:               models.StatusPending,
		OrganizerID:          in.OrganizerID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent returns an event. Pending and rejected events are visible only to
// their organizer and admins.
func (s *EventService) GetEvent(ctx context.Context, id, currentUserID string, isAdmin bool) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != models.StatusApproved && event.OrganizerID != currentUserID && !isAdmin {
		return nil, models.NewNotFoundError("Event", id)
	}
	return event, nil
}

// ListEvents lists approved events for the public feed, or the caller's own
// events in every status when mine is set.
func (s *EventService) ListEvents(ctx context.Context, currentUserID string, mine bool, limit, offset int) ([]*models.Event, error) {
	filter := repository.EventFilter{
		Status: models.StatusApproved,
		Limit:  limit,
		Offset: offset,
	}
	if mine {
		filter.Status = "all"
		filter.OrganizerID = currentUserID
	}
	return s.events.List(ctx, filter)
}

func (s *EventService) UpdateEvent(ctx context.Context, in UpdateEventInput) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own events")
	}

	if in.Title != "" {
		event.Title = in.Title
	}
	if in.Description != "" {
		event.Description = in.Description
	}
	if in.Location != "" {
		event.Location = in.Location
	}
	if in.Date != nil {
		event.Date = *in.Date
	}
	if in.Time != "" {
		event.Time = in.Time
	}
	if in.RegistrationDeadline != nil {
		event.RegistrationDeadline = *in.RegistrationDeadline
	}
	if !event.RegistrationDeadline.Before(event.Date) {
		return nil, models.NewValidationError("Registration deadline must be before the event date")
	}
	if in.MaxParticipants != nil {
		if *in.MaxParticipants <= 0 {
			return nil, models.NewValidationError("Max participants must be positive")
		}
		event.MaxParticipants = *in.MaxParticipants
	}
	if in.Categories != nil {
		if err := validation.ValidateCategories(in.Categories); err != nil {
			return nil, err
		}
		event.Categories = models.StringList(in.Categories)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, models.NewValidationError("Price cannot be negative")
		}
		event.Price = *in.Price
	}
	// Material edits go back through moderation.
	event.Status = models.StatusPending

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, eventID, userID string, isAdmin bool) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != userID && !isAdmin {
		return models.NewForbiddenError("You can only delete your own events")
	}
	return s.events.Delete(ctx, eventID)
}

// checkRegistrable runs the deadline, capacity and category gates shared by
// direct registration and payment-session creation.
func (s *EventService) checkRegistrable(ctx context.Context, event *models.Event, category string, now time.Time) error {
	if event.Status != models.StatusApproved {
		return models.NewValidationError("Event is not open for registration")
	}
	if now.After(event.RegistrationDeadline) {
		return models.NewValidationError("Registration deadline has passed")
	}
	if !event.Categories.Contains(category) {
		return models.NewValidationError("Unknown category for this event")
	}
	count, err := s.registrations.CountActiveByEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	if count >= int64(event.MaxParticipants) {
		return models.NewValidationError("Event is full")
	}
	return nil
}

// Register creates a pending registration. The (event, user) unique index is
// the final arbiter against concurrent duplicates. Price does not gate this
// path: paid events accept direct registrations too, with payment reconciled
// through the session flow or offline.
func (s *EventService) Register(ctx context.Context, eventID, userID, category string) (*models.EventRegistration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRegistrable(ctx, event, category, time.Now()); err != nil {
		return nil, err
	}

	reg := &models.EventRegistration{
		EventID:  eventID,
		UserID:   userID,
		Category: category,
		Status:   models.StatusPending,
	}
	if err := s.registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicateRegistration) {
			return nil, models.NewConflictError("You are already registered for this event")
		}
		return nil, err
	}
	return reg, nil
}

// ListRegistrations is restricted to the event organizer and admins.
func (s *EventService) ListRegistrations(ctx context.Context, eventID, currentUserID string, isAdmin bool) ([]*models.EventRegistration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != currentUserID && !isAdmin {
		return nil, models.NewForbiddenError("Only the organizer can view registrations")
	}
	return s.registrations.List(ctx, repository.RegistrationFilter{EventID: eventID, Status: "all"})
}
