package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResetCodeTTL is how long a password reset code stays valid.
const ResetCodeTTL = 15 * time.Minute

// PasswordResetCode is a single-use numeric code mailed to a user. Issuing a
// new code marks all previous unused codes for the same user as used. Expiry
// is checked on verification, never swept.
type PasswordResetCode struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Email     string    `gorm:"not null;index" json:"email"`
	Code      string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *PasswordResetCode) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// EmailSubscription records an address subscribed to event announcements.
// Subscribing twice is a no-op.
type EmailSubscription struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *EmailSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
