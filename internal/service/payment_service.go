package service

import (
	"context"
	"errors"
	"time"

	"paceup/internal/models"
	"paceup/internal/observability"
	"paceup/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PaymentService implements the sandbox QR payment flow. Sessions expire
// lazily: whoever reads a pending session past its window persists the
// expired transition, so no background sweeper is needed. All terminal
// states are absorbing; confirm and cancel on a settled session report the
// stored status unchanged.
type PaymentService struct {
	payments      repository.PaymentRepository
	events        *EventService
	registrations repository.RegistrationRepository
	now           func() time.Time
}

type CreateSessionInput struct {
	UserID   string
	EventID  string `json:"event_id"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type ConfirmInput struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
}

// SessionView is what payment endpoints return: the session plus the QR
// payload a sandbox client renders.
type SessionView struct {
	*models.PaymentSession
	QRPayload string `json:"qr_payload,omitempty"`
}

func NewPaymentService(
	payments repository.PaymentRepository,
	events *EventService,
	registrations repository.RegistrationRepository,
) *PaymentService {
	return &PaymentService{
		payments:      payments,
		events:        events,
		registrations: registrations,
		now:           time.Now,
	}
}

// CreateSession opens a 5-minute payment window. The amount is supplied by
// the caller in the smallest currency unit and is not checked against the
// event's listed price. The same registrability gates as direct registration
// apply up front; the duplicate check repeats at confirm time because the
// registration row is only written on success.
func (s *PaymentService) CreateSession(ctx context.Context, in CreateSessionInput) (*SessionView, error) {
	if in.Amount <= 0 {
		return nil, models.NewValidationError("Amount must be a positive integer")
	}
	event, err := s.events.events.GetByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.events.checkRegistrable(ctx, event, in.Category, now); err != nil {
		return nil, err
	}
	if dup, err := s.alreadyRegistered(ctx, in.EventID, in.UserID); err != nil {
		return nil, err
	} else if dup {
		return nil, models.NewConflictError("You are already registered for this event")
	}

	session := &models.PaymentSession{
		EventID:   in.EventID,
		UserID:    in.UserID,
		Category:  in.Category,
		Amount:    in.Amount,
		Status:    models.PaymentPending,
		ExpiresAt: now.Add(models.PaymentWindow),
	}
	if err := s.payments.Create(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// GetStatus returns the session after the lazy-expiry evaluation. A pending
// session past its window is persisted as expired before being returned, so
// reads are the mechanism that settles abandoned sessions.
func (s *PaymentService) GetStatus(ctx context.Context, sessionID, userID string) (*SessionView, error) {
	session, err := s.settle(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.NewForbiddenError("Not your payment session")
	}
	return s.view(session), nil
}

// Confirm handles the unauthenticated sandbox callback. action is "confirm"
// (the default when omitted) or "cancel". Terminal states absorb: confirming
// an already-settled session returns its stored status without error.
func (s *PaymentService) Confirm(ctx context.Context, in ConfirmInput) (*SessionView, error) {
	if in.Action == "" {
		in.Action = "confirm"
	}
	if in.Action != "confirm" && in.Action != "cancel" {
		return nil, models.NewValidationError("Action must be confirm or cancel")
	}

	span, ctx := observability.NewSpan(ctx, "payment.confirm")
	defer span.End()
	span.AddAttributes(attribute.String("payment.action", in.Action))

	session, err := s.settle(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Terminal() {
		return s.view(session), nil
	}

	next := models.PaymentSuccess
	if in.Action == "cancel" {
		next = models.PaymentCancelled
	}

	moved, err := s.payments.TransitionFrom(ctx, session.ID, models.PaymentPending, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Lost a race with another transition; the stored status wins.
		return s.GetStatusAny(ctx, in.SessionID)
	}
	observability.PaymentTransitions.WithLabelValues(next).Inc()

	if next == models.PaymentSuccess {
		reg := &models.EventRegistration{
			EventID:  session.EventID,
			UserID:   session.UserID,
			Category: session.Category,
			Status:   models.StatusPending,
		}
		if err := s.registrations.Create(ctx, reg); err != nil && !errors.Is(err, repository.ErrDuplicateRegistration) {
			return nil, err
		}
	}

	session.Status = next
	return s.view(session), nil
}

// GetStatusAny is GetStatus without the ownership check, for internal use
// and the unauthenticated confirm path.
func (s *PaymentService) GetStatusAny(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.settle(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// settle loads the session and persists the expired transition when a
// pending session is past its window.
func (s *PaymentService) settle(ctx context.Context, sessionID string) (*models.PaymentSession, error) {
	session, err := s.payments.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.PaymentPending && session.ExpiredAt(s.now()) {
		moved, err := s.payments.TransitionFrom(ctx, session.ID, models.PaymentPending, models.PaymentExpired)
		if err != nil {
			return nil, err
		}
		if moved {
			observability.PaymentTransitions.WithLabelValues(models.PaymentExpired).Inc()
			session.Status = models.PaymentExpired
		} else {
			return s.payments.GetByID(ctx, sessionID)
		}
	}
	return session, nil
}

func (s *PaymentService) alreadyRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	regs, err := s.registrations.List(ctx, repository.RegistrationFilter{
		EventID: eventID,
		UserID:  userID,
		Status:  "all",
	})
	if err != nil {
		return false, err
	}
	return len(regs) > 0, nil
}

func (s *PaymentService) view(session *models.PaymentSession) *SessionView {
	v := &SessionView{PaymentSession: session}
	if session.Status == models.PaymentPending {
		// Sandbox QR payload; a real PSP would hand back its own artifact.
		v.QRPayload = "paceup://pay?session=" + session.ID
	}
	return v
}
