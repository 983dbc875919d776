package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment session statuses. Success, cancelled and expired are absorbing:
// once reached, later confirm/cancel calls report the stored status unchanged.
const (
	PaymentPending   = "pending"
	PaymentSuccess   = "success"
	PaymentCancelled = "cancelled"
	PaymentExpired   = "expired"
)

// PaymentWindow is how long a sandbox payment session stays confirmable.
const PaymentWindow = 5 * time.Minute

// PaymentSession is a sandbox payment intent for an event registration.
// Expiry is observed, not enforced: there is no background sweeper, so a
// session past expires_at keeps its pending status until the next read
// persists the expired transition.
type PaymentSession struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID   string    `gorm:"type:varchar(36);not null;index" json:"event_id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Category  string    `gorm:"not null" json:"category"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Status    string    `gorm:"not null;default:pending;index" json:"status"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PaymentSession) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Terminal reports whether the session is in an absorbing state.
func (p *PaymentSession) Terminal() bool {
	return p.Status != PaymentPending
}

// ExpiredAt reports whether the session's window has passed at the given time.
func (p *PaymentSession) ExpiredAt(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
