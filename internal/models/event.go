package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event represents an organizer-owned running event. Events are publicly
// visible once approved by an admin.
type Event struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title                string     `gorm:"not null" json:"title"`
	Description          string     `gorm:"type:text" json:"description"`
	Location             string     `json:"location"`
	Date                 time.Time  `gorm:"not null" json:"date"`
	Time                 string     `json:"time"`
	RegistrationDeadline time.Time  `gorm:"not null" json:"registration_deadline"`
	MaxParticipants      int        `gorm:"not null" json:"max_participants"`
	Categories           StringList `gorm:"type:text" json:"categories"`
	Price                int64      `json:"price"`
	BankAccountNumber    string     `json:"bank_account_number,omitempty"`
	BankAccountName      string     `json:"bank_account_name,omitempty"`
	BankName             string     `json:"bank_name,omitempty"`
	Status               string     `gorm:"not null;default:pending;index" json:"status"`
	OrganizerID          string     `gorm:"type:varchar(36);not null;index" json:"organizer_id"`
	// OrganizerName is not persisted; joined at query time
	OrganizerName string `gorm:"->" json:"organizer_name"`
	// RegisteredCount is not persisted; computed at query time
	RegisteredCount int            `gorm:"->" json:"registered_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventRegistration links one user to one event under a chosen category.
// One registration per (event, user) is enforced by a unique index; inserts
// use ON CONFLICT DO NOTHING so concurrent attempts cannot create duplicates.
type EventRegistration struct {
	ID               string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID          string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_event_user_reg" json:"event_id"`
	UserID           string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_event_user_reg" json:"user_id"`
	Category         string     `gorm:"not null" json:"category"`
	Status           string     `gorm:"not null;default:pending;index" json:"status"`
	RejectionReasons StringList `gorm:"type:text" json:"rejection_reasons,omitempty"`
	RejectionNote    string     `json:"rejection_note,omitempty"`
	// Joined at query time for listings
	UserName   string `gorm:"->" json:"user_name,omitempty"`
	UserEmail  string `gorm:"->" json:"user_email,omitempty"`
	EventTitle string `gorm:"->" json:"event_title,omitempty"`
	// PaidAmount is the amount of the successful payment session for this
	// registration, if any; joined at query time in admin listings.
	PaidAmount *int64    `gorm:"->" json:"paid_amount,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
