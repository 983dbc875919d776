package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post types. Blog posts require moderation; content posts are published
// immediately.
const (
	PostTypeBlog    = "blog"
	PostTypeContent = "content"
)

// Moderation statuses shared by posts, events and registrations.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Post represents a blog or content post authored by a user.
type Post struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url"`
	PostType string `gorm:"not null;default:blog;index" json:"post_type"`
	Status   string `gorm:"not null;default:pending;index" json:"status"`
	UserID   string `gorm:"type:varchar(36);not null;index" json:"user_id"`
	// AuthorName is not persisted; joined at query time
	AuthorName string `gorm:"->" json:"author_name"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostLike records a user's like on a post. The (post, user) pair is unique
// so repeated likes are no-ops at the database level.
type PostLike struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_post_user_like" json:"post_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_post_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
