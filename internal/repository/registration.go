package repository

import (
	"context"
	"errors"

	"paceup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateRegistration is returned when the (event, user) pair already
// has a registration. The unique index is the authority; there is no
// check-then-insert window.
var ErrDuplicateRegistration = errors.New("registration already exists for this event and user")

// RegistrationFilter narrows registration listings.
type RegistrationFilter struct {
	EventID string
	UserID  string
	// Status filters by moderation status; "all" disables the filter.
	Status string
	Limit  int
	Offset int
}

// RegistrationRepository defines persistence operations for event registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.EventRegistration) error
	GetByID(ctx context.Context, id string) (*models.EventRegistration, error)
	List(ctx context.Context, filter RegistrationFilter) ([]*models.EventRegistration, error)
	ListWithPayments(ctx context.Context, filter RegistrationFilter) ([]*models.EventRegistration, error)
	CountActiveByEvent(ctx context.Context, eventID string) (int64, error)
	UpdateStatus(ctx context.Context, id, status string, reasons models.StringList, note string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository returns a new RegistrationRepository implementation.
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Create inserts a registration, relying on the (event_id, user_id) unique
// index with ON CONFLICT DO NOTHING to reject duplicates atomically.
func (r *registrationRepository) Create(ctx context.Context, reg *models.EventRegistration) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(reg)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateRegistration
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Registration", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &reg, nil
}

// applyRegistrationDetails joins user and event display fields for listings.
func (r *registrationRepository) applyRegistrationDetails(db *gorm.DB, selectExtra string) *gorm.DB {
	sel := "event_registrations.*, users.username as user_name, users.email as user_email, events.title as event_title"
	if selectExtra != "" {
		sel += ", " + selectExtra
	}
	return db.
		Select(sel).
		Joins("JOIN users ON users.id = event_registrations.user_id").
		Joins("JOIN events ON events.id = event_registrations.event_id")
}

func (r *registrationRepository) applyFilter(q *gorm.DB, filter RegistrationFilter) *gorm.DB {
	if filter.EventID != "" {
		q = q.Where("event_registrations.event_id = ?", filter.EventID)
	}
	if filter.UserID != "" {
		q = q.Where("event_registrations.user_id = ?", filter.UserID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("event_registrations.status = ?", filter.Status)
	}
	return q
}

func (r *registrationRepository) List(ctx context.Context, filter RegistrationFilter) ([]*models.EventRegistration, error) {
	var regs []*models.EventRegistration
	q := r.applyRegistrationDetails(r.db.WithContext(ctx).Model(&models.EventRegistration{}), "")
	q = r.applyFilter(q, filter).Order("event_registrations.created_at DESC")
	// Limit(0) would emit LIMIT 0 and return nothing; zero means unbounded here.
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Offset(filter.Offset).Find(&regs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return regs, nil
}

// ListWithPayments joins the successful payment session amount (if any) for
// each registration, for the admin payments view.
func (r *registrationRepository) ListWithPayments(ctx context.Context, filter RegistrationFilter) ([]*models.EventRegistration, error) {
	var regs []*models.EventRegistration
	q := r.applyRegistrationDetails(
		r.db.WithContext(ctx).Model(&models.EventRegistration{}),
		"(SELECT amount FROM payment_sessions WHERE payment_sessions.event_id = event_registrations.event_id"+
			" AND payment_sessions.user_id = event_registrations.user_id"+
			" AND payment_sessions.status = 'success'"+
			" ORDER BY payment_sessions.created_at DESC LIMIT 1) as paid_amount",
	)
	q = r.applyFilter(q, filter).Order("event_registrations.created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Offset(filter.Offset).Find(&regs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return regs, nil
}

// CountActiveByEvent counts registrations holding a capacity slot (pending or
// approved).
func (r *registrationRepository) CountActiveByEvent(ctx context.Context, eventID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.EventRegistration{}).
		Where("event_id = ? AND status != ?", eventID, models.StatusRejected).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id, status string, reasons models.StringList, note string) error {
	updates := map[string]interface{}{"status": status}
	if len(reasons) > 0 {
		updates["rejection_reasons"] = reasons
	}
	if note != "" {
		updates["rejection_note"] = note
	}
	res := r.db.WithContext(ctx).Model(&models.EventRegistration{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Registration", id)
	}
	return nil
}

func (r *registrationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.EventRegistration{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
