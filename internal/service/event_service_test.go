package service

import (
	"context"
	"testing"
	"time"

	"paceup/internal/models"
	"paceup/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateEventInput() CreateEventInput {
	return CreateEventInput{
		OrganizerID:          "organizer-1",
		Title:                "Sunrise 10K",
		Date:                 time.Now().Add(30 * 24 * time.Hour),
		RegistrationDeadline: time.Now().Add(20 * 24 * time.Hour),
		MaxParticipants:      200,
		Categories:           []string{"5k", "10k"},
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	svc := NewEventService(noopEventRepo(), noopRegistrationRepo())
	ctx := context.Background()

	in := validCreateEventInput()
	in.Title = "  "
	_, err := svc.CreateEvent(ctx, in)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	in = validCreateEventInput()
	in.RegistrationDeadline = in.Date.Add(time.Hour)
	_, err = svc.CreateEvent(ctx, in)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	in = validCreateEventInput()
	in.MaxParticipants = 0
	_, err = svc.CreateEvent(ctx, in)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	in = validCreateEventInput()
	in.Price = 50000
	_, err = svc.CreateEvent(ctx, in)
	assertAppErrorCode(t, err, "VALIDATION_ERROR") // paid event without bank account
}

func TestCreateEvent_StartsPending(t *testing.T) {
	events := noopEventRepo()
	var created *models.Event
	events.createFn = func(_ context.Context, e *models.Event) error {
		created = e
		return nil
	}
	svc := NewEventService(events, noopRegistrationRepo())

	_, err := svc.CreateEvent(context.Background(), validCreateEventInput())
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.StatusPending, created.Status)
}

func TestGetEvent_PendingHiddenFromOthers(t *testing.T) {
	events := noopEventRepo()
	events.getByIDFn = func(_ context.Context, id string) (*models.Event, error) {
		e := openEvent(id, 0)
		e.Status = models.StatusPending
		return e, nil
	}
	svc := NewEventService(events, noopRegistrationRepo())
	ctx := context.Background()

	_, err := svc.GetEvent(ctx, "event-1", "stranger", false)
	assertAppErrorCode(t, err, "NOT_FOUND")

	_, err = svc.GetEvent(ctx, "event-1", "organizer-1", false)
	assert.NoError(t, err)

	_, err = svc.GetEvent(ctx, "event-1", "stranger", true)
	assert.NoError(t, err)
}

func TestUpdateEvent_OwnerOnly(t *testing.T) {
	svc := NewEventService(noopEventRepo(), noopRegistrationRepo())

	_, err := svc.UpdateEvent(context.Background(), UpdateEventInput{
		UserID: "stranger", EventID: "event-1", Title: "Hijacked",
	})
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestUpdateEvent_GoesBackToPending(t *testing.T) {
	events := noopEventRepo()
	var updated *models.Event
	events.updateFn = func(_ context.Context, e *models.Event) error {
		updated = e
		return nil
	}
	svc := NewEventService(events, noopRegistrationRepo())

	_, err := svc.UpdateEvent(context.Background(), UpdateEventInput{
		UserID: "organizer-1", EventID: "event-1", Title: "Sunset 10K",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, "Sunset 10K", updated.Title)
}

func TestRegister_Gates(t *testing.T) {
	ctx := context.Background()

	t.Run("deadline passed", func(t *testing.T) {
		events := noopEventRepo()
		events.getByIDFn = func(_ context.Context, id string) (*models.Event, error) {
			e := openEvent(id, 0)
			e.RegistrationDeadline = time.Now().Add(-time.Hour)
			return e, nil
		}
		svc := NewEventService(events, noopRegistrationRepo())
		_, err := svc.Register(ctx, "event-1", "user-1", "10k")
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := NewEventService(noopEventRepo(), noopRegistrationRepo())
		_, err := svc.Register(ctx, "event-1", "user-1", "marathon")
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("event full", func(t *testing.T) {
		regs := noopRegistrationRepo()
		regs.countActiveByEventFn = func(_ context.Context, _ string) (int64, error) { return 100, nil }
		svc := NewEventService(noopEventRepo(), regs)
		_, err := svc.Register(ctx, "event-1", "user-1", "10k")
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("unapproved event", func(t *testing.T) {
		events := noopEventRepo()
		events.getByIDFn = func(_ context.Context, id string) (*models.Event, error) {
			e := openEvent(id, 0)
			e.Status = models.StatusPending
			return e, nil
		}
		svc := NewEventService(events, noopRegistrationRepo())
		_, err := svc.Register(ctx, "event-1", "user-1", "10k")
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("paid event accepted", func(t *testing.T) {
		events := noopEventRepo()
		events.getByIDFn = func(_ context.Context, id string) (*models.Event, error) {
			return openEvent(id, 150000), nil
		}
		svc := NewEventService(events, noopRegistrationRepo())
		reg, err := svc.Register(ctx, "event-1", "user-1", "10k")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, reg.Status)
	})
}

func TestRegister_DuplicateBecomesConflict(t *testing.T) {
	regs := noopRegistrationRepo()
	regs.createFn = func(_ context.Context, _ *models.EventRegistration) error {
		return repository.ErrDuplicateRegistration
	}
	svc := NewEventService(noopEventRepo(), regs)

	_, err := svc.Register(context.Background(), "event-1", "user-1", "10k")
	assertAppErrorCode(t, err, "CONFLICT")
}

func TestRegister_CreatesPendingRegistration(t *testing.T) {
	regs := noopRegistrationRepo()
	var created *models.EventRegistration
	regs.createFn = func(_ context.Context, r *models.EventRegistration) error {
		created = r
		return nil
	}
	svc := NewEventService(noopEventRepo(), regs)

	_, err := svc.Register(context.Background(), "event-1", "user-1", "10k")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "10k", created.Category)
}

func TestListRegistrations_OrganizerOrAdminOnly(t *testing.T) {
	svc := NewEventService(noopEventRepo(), noopRegistrationRepo())
	ctx := context.Background()

	_, err := svc.ListRegistrations(ctx, "event-1", "stranger", false)
	assertAppErrorCode(t, err, "FORBIDDEN")

	_, err = svc.ListRegistrations(ctx, "event-1", "organizer-1", false)
	assert.NoError(t, err)

	_, err = svc.ListRegistrations(ctx, "event-1", "stranger", true)
	assert.NoError(t, err)
}
