package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report statuses. Resolving a report deletes the reported post; dismissing
// leaves the post intact.
const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Report is a user's complaint against a post.
type Report struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID      string     `gorm:"type:varchar(36);not null;index" json:"post_id"`
	ReporterID  string     `gorm:"type:varchar(36);not null;index" json:"reporter_id"`
	Reasons     StringList `gorm:"type:text" json:"reasons"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"not null;default:pending;index" json:"status"`
	// Joined at query time for admin listings
	PostTitle    string    `gorm:"->" json:"post_title,omitempty"`
	ReporterName string    `gorm:"->" json:"reporter_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
