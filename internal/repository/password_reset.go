package repository

import (
	"context"
	"errors"
	"time"

	"paceup/internal/models"

	"gorm.io/gorm"
)

// PasswordResetRepository defines persistence operations for reset codes.
type PasswordResetRepository interface {
	// Issue stores a new code and marks any previous unused codes for the
	// same user as used, so only the latest code can succeed.
	Issue(ctx context.Context, code *models.PasswordResetCode) error
	// GetActive returns the unused, unexpired code matching email+code, or
	// nil when no such code exists. Expiry is observed here, not swept.
	GetActive(ctx context.Context, email, code string, now time.Time) (*models.PasswordResetCode, error)
	MarkUsed(ctx context.Context, id string) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository returns a new PasswordResetRepository implementation.
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Issue(ctx context.Context, code *models.PasswordResetCode) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PasswordResetCode{}).
			Where("user_id = ? AND used = ?", code.UserID, false).
			Update("used", true).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *passwordResetRepository) GetActive(ctx context.Context, email, code string, now time.Time) (*models.PasswordResetCode, error) {
	var rec models.PasswordResetCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND used = ? AND expires_at > ?", email, code, false, now).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rec, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.PasswordResetCode{}).
		Where("id = ?", id).
		Update("used", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Reset code", id)
	}
	return nil
}
