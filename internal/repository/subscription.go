package repository

import (
	"context"

	"paceup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository defines persistence operations for email subscriptions.
type SubscriptionRepository interface {
	// Subscribe upserts by email; re-subscribing reactivates an inactive row.
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
	ListActive(ctx context.Context) ([]models.EmailSubscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository returns a new SubscriptionRepository implementation.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, email string) error {
	sub := models.EmailSubscription{Email: email, IsActive: true}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true}),
	}).Create(&sub).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).Model(&models.EmailSubscription{}).
		Where("email = ?", email).
		Update("is_active", false)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Subscription", email)
	}
	return nil
}

func (r *subscriptionRepository) ListActive(ctx context.Context) ([]models.EmailSubscription, error) {
	var subs []models.EmailSubscription
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}
