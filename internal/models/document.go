package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxDocumentSize is the upload limit for analyzed documents.
const MaxDocumentSize = 10 << 20

// Document records an uploaded PDF or DOCX and where its original and
// extracted HTML preview live in object storage. StorageKey and PreviewKey
// are empty when storage was unavailable and only extraction succeeded.
type Document struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Filename    string    `gorm:"not null" json:"filename"`
	ContentType string    `gorm:"not null" json:"content_type"`
	Size        int64     `gorm:"not null" json:"size"`
	StorageKey  string    `json:"storage_key,omitempty"`
	StorageURL  string    `json:"storage_url,omitempty"`
	PreviewKey  string    `json:"preview_key,omitempty"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	HTMLLength  int       `json:"html_length"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
