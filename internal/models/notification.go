package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotifyPostLiked            = "post_liked"
	NotifyBlogApproved         = "blog_approved"
	NotifyBlogRejected         = "blog_rejected"
	NotifyEventApproved        = "event_approved"
	NotifyEventRejected        = "event_rejected"
	NotifyRegistrationApproved = "registration_approved"
	NotifyRegistrationRejected = "registration_rejected"
)

// Notification is an append-only message addressed to one user. Rejection
// reasons travel in the Metadata payload rather than on the moderated entity.
type Notification struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Metadata  JSONMap   `gorm:"type:text" json:"metadata,omitempty"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
