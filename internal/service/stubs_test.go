package service

import (
	"context"
	"testing"
	"time"

	"paceup/internal/models"
	"paceup/internal/notifications"
	"paceup/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, string) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	updateRoleFn func(context.Context, string, string) error
	listFn       func(context.Context, int, int) ([]models.User, error)
	countFn      func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id, role string) error {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateRoleFn: func(_ context.Context, _, _ string) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		countFn:      func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, string, string) (*models.Post, error)
	listFn          func(context.Context, repository.PostFilter, string) ([]*models.Post, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, string) error
	likeFn          func(context.Context, string, string) (bool, error)
	unlikeFn        func(context.Context, string, string) error
	updateStatusFn  func(context.Context, string, string) error
	countByStatusFn func(context.Context, string, string) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID string) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, currentUserID string) ([]*models.Post, error) {
	return s.listFn(ctx, filter, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, postID, userID string) (bool, error) {
	return s.likeFn(ctx, postID, userID)
}
func (s *postRepoStub) Unlike(ctx context.Context, postID, userID string) error {
	return s.unlikeFn(ctx, postID, userID)
}
func (s *postRepoStub) UpdateStatus(ctx context.Context, id, status string) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *postRepoStub) CountByStatus(ctx context.Context, postType, status string) (int64, error) {
	return s.countByStatusFn(ctx, postType, status)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ string) (*models.Post, error) {
			return &models.Post{ID: id, Status: models.StatusApproved}, nil
		},
		listFn:          func(_ context.Context, _ repository.PostFilter, _ string) ([]*models.Post, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ string) error { return nil },
		likeFn:          func(_ context.Context, _, _ string) (bool, error) { return true, nil },
		unlikeFn:        func(_ context.Context, _, _ string) error { return nil },
		updateStatusFn:  func(_ context.Context, _, _ string) error { return nil },
		countByStatusFn: func(_ context.Context, _, _ string) (int64, error) { return 0, nil },
	}
}

// eventRepoStub is a stub for repository.EventRepository.
type eventRepoStub struct {
	createFn        func(context.Context, *models.Event) error
	getByIDFn       func(context.Context, string) (*models.Event, error)
	listFn          func(context.Context, repository.EventFilter) ([]*models.Event, error)
	updateFn        func(context.Context, *models.Event) error
	deleteFn        func(context.Context, string) error
	updateStatusFn  func(context.Context, string, string) error
	countByStatusFn func(context.Context, string) (int64, error)
}

func (s *eventRepoStub) Create(ctx context.Context, event *models.Event) error {
	return s.createFn(ctx, event)
}
func (s *eventRepoStub) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return s.getByIDFn(ctx, id)
}
func (s *eventRepoStub) List(ctx context.Context, filter repository.EventFilter) ([]*models.Event, error) {
	return s.listFn(ctx, filter)
}
func (s *eventRepoStub) Update(ctx context.Context, event *models.Event) error {
	return s.updateFn(ctx, event)
}
func (s *eventRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *eventRepoStub) UpdateStatus(ctx context.Context, id, status string) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *eventRepoStub) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.countByStatusFn(ctx, status)
}

// openEvent returns an approved paid-or-free event accepting registrations.
func openEvent(id string, price int64) *models.Event {
	return &models.Event{
		ID:                   id,
		Title:                "Sunrise 10K",
		Date:                 time.Now().Add(72 * time.Hour),
		RegistrationDeadline: time.Now().Add(48 * time.Hour),
		MaxParticipants:      100,
		Categories:           models.StringList{"5k", "10k"},
		Price:                price,
		Status:               models.StatusApproved,
		OrganizerID:          "organizer-1",
	}
}

func noopEventRepo() *eventRepoStub {
	return &eventRepoStub{
		createFn:        func(_ context.Context, _ *models.Event) error { return nil },
		getByIDFn:       func(_ context.Context, id string) (*models.Event, error) { return openEvent(id, 0), nil },
		listFn:          func(_ context.Context, _ repository.EventFilter) ([]*models.Event, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Event) error { return nil },
		deleteFn:        func(_ context.Context, _ string) error { return nil },
		updateStatusFn:  func(_ context.Context, _, _ string) error { return nil },
		countByStatusFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

// registrationRepoStub is a stub for repository.RegistrationRepository.
type registrationRepoStub struct {
	createFn             func(context.Context, *models.EventRegistration) error
	getByIDFn            func(context.Context, string) (*models.EventRegistration, error)
	listFn               func(context.Context, repository.RegistrationFilter) ([]*models.EventRegistration, error)
	listWithPaymentsFn   func(context.Context, repository.RegistrationFilter) ([]*models.EventRegistration, error)
	countActiveByEventFn func(context.Context, string) (int64, error)
	updateStatusFn       func(context.Context, string, string, models.StringList, string) error
	countByStatusFn      func(context.Context, string) (int64, error)
}

func (s *registrationRepoStub) Create(ctx context.Context, reg *models.EventRegistration) error {
	return s.createFn(ctx, reg)
}
func (s *registrationRepoStub) GetByID(ctx context.Context, id string) (*models.EventRegistration, error) {
	return s.getByIDFn(ctx, id)
}
func (s *registrationRepoStub) List(ctx context.Context, filter repository.RegistrationFilter) ([]*models.EventRegistration, error) {
	return s.listFn(ctx, filter)
}
func (s *registrationRepoStub) ListWithPayments(ctx context.Context, filter repository.RegistrationFilter) ([]*models.EventRegistration, error) {
	return s.listWithPaymentsFn(ctx, filter)
}
func (s *registrationRepoStub) CountActiveByEvent(ctx context.Context, eventID string) (int64, error) {
	return s.countActiveByEventFn(ctx, eventID)
}
func (s *registrationRepoStub) UpdateStatus(ctx context.Context, id, status string, reasons models.StringList, note string) error {
	return s.updateStatusFn(ctx, id, status, reasons, note)
}
func (s *registrationRepoStub) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.countByStatusFn(ctx, status)
}

func noopRegistrationRepo() *registrationRepoStub {
	return &registrationRepoStub{
		createFn: func(_ context.Context, _ *models.EventRegistration) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.EventRegistration, error) {
			return &models.EventRegistration{ID: id, Status: models.StatusPending}, nil
		},
		listFn: func(_ context.Context, _ repository.RegistrationFilter) ([]*models.EventRegistration, error) {
			return nil, nil
		},
		listWithPaymentsFn: func(_ context.Context, _ repository.RegistrationFilter) ([]*models.EventRegistration, error) {
			return nil, nil
		},
		countActiveByEventFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		updateStatusFn:       func(_ context.Context, _, _ string, _ models.StringList, _ string) error { return nil },
		countByStatusFn:      func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

// memPaymentRepo keeps sessions in a map so transitions behave like the
// conditional UPDATE in the real repository.
type memPaymentRepo struct {
	sessions map[string]*models.PaymentSession
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{sessions: map[string]*models.PaymentSession{}}
}

func (m *memPaymentRepo) Create(_ context.Context, session *models.PaymentSession) error {
	if session.ID == "" {
		session.ID = "session-1"
	}
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *memPaymentRepo) GetByID(_ context.Context, id string) (*models.PaymentSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, models.NewNotFoundError("Payment session", id)
	}
	cp := *session
	return &cp, nil
}

func (m *memPaymentRepo) TransitionFrom(_ context.Context, id, expected, next string) (bool, error) {
	session, ok := m.sessions[id]
	if !ok || session.Status != expected {
		return false, nil
	}
	session.Status = next
	return true, nil
}

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	createFn  func(context.Context, *models.Report) error
	getByIDFn func(context.Context, string) (*models.Report, error)
	listFn    func(context.Context, string, int, int) ([]*models.Report, error)
	resolveFn func(context.Context, string, string) error
	dismissFn func(context.Context, string) error
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id string) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) List(ctx context.Context, status string, limit, offset int) ([]*models.Report, error) {
	return s.listFn(ctx, status, limit, offset)
}
func (s *reportRepoStub) Resolve(ctx context.Context, id, postID string) error {
	return s.resolveFn(ctx, id, postID)
}
func (s *reportRepoStub) Dismiss(ctx context.Context, id string) error {
	return s.dismissFn(ctx, id)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn: func(_ context.Context, _ *models.Report) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Report, error) {
			return &models.Report{ID: id, PostID: "post-1", Status: models.ReportPending}, nil
		},
		listFn:    func(_ context.Context, _ string, _, _ int) ([]*models.Report, error) { return nil, nil },
		resolveFn: func(_ context.Context, _, _ string) error { return nil },
		dismissFn: func(_ context.Context, _ string) error { return nil },
	}
}

// resetRepoStub is a stub for repository.PasswordResetRepository.
type resetRepoStub struct {
	issueFn     func(context.Context, *models.PasswordResetCode) error
	getActiveFn func(context.Context, string, string, time.Time) (*models.PasswordResetCode, error)
	markUsedFn  func(context.Context, string) error
}

func (s *resetRepoStub) Issue(ctx context.Context, code *models.PasswordResetCode) error {
	return s.issueFn(ctx, code)
}
func (s *resetRepoStub) GetActive(ctx context.Context, email, code string, now time.Time) (*models.PasswordResetCode, error) {
	return s.getActiveFn(ctx, email, code, now)
}
func (s *resetRepoStub) MarkUsed(ctx context.Context, id string) error {
	return s.markUsedFn(ctx, id)
}

// mailerStub records sent mail.
type mailerStub struct {
	sent []string
	err  error
}

func (m *mailerStub) Send(_ context.Context, kind, to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, kind+":"+to)
	return nil
}

// notificationRepoStub is a stub for repository.NotificationRepository,
// recording notifications written by the services under test.
type notificationRepoStub struct {
	created []*models.Notification
}

func (s *notificationRepoStub) Create(_ context.Context, n *models.Notification) error {
	s.created = append(s.created, n)
	return nil
}
func (s *notificationRepoStub) ListByUser(context.Context, string, int, int) ([]*models.Notification, error) {
	return nil, nil
}
func (s *notificationRepoStub) UnreadCount(context.Context, string) (int64, error) { return 0, nil }
func (s *notificationRepoStub) MarkRead(context.Context, string, string) error     { return nil }
func (s *notificationRepoStub) MarkAllRead(context.Context, string) error          { return nil }

func testNotifier() (*notifications.Notifier, *notificationRepoStub) {
	repo := &notificationRepoStub{}
	return notifications.NewNotifier(repo, nil), repo
}

// assertAppErrorCode asserts err is an *models.AppError carrying the code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}
