package repository

import (
	"context"
	"errors"

	"paceup/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines persistence operations for sandbox payment sessions.
type PaymentRepository interface {
	Create(ctx context.Context, session *models.PaymentSession) error
	GetByID(ctx context.Context, id string) (*models.PaymentSession, error)
	// TransitionFrom moves a session from an expected status to the next one,
	// guarded by a conditional UPDATE. Returns false when the session was not
	// in the expected status, which callers treat as "lost the race, re-read".
	TransitionFrom(ctx context.Context, id, expected, next string) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository returns a new PaymentRepository implementation.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, session *models.PaymentSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Payment session", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &session, nil
}

func (r *paymentRepository) TransitionFrom(ctx context.Context, id, expected, next string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.PaymentSession{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
