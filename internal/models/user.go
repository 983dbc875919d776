// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Running experience levels reported on a user's profile.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
	ExperienceExpert       = "expert"
)

// ExpectedDistanceKm maps a running experience level to the expected
// comfortable distance shown in the user's stats.
var ExpectedDistanceKm = map[string]float64{
	ExperienceBeginner:     3.2,
	ExperienceIntermediate: 10,
	ExperienceAdvanced:     21,
	ExperienceExpert:       42,
}

// User represents an account on the PaceUp platform. Password is empty for
// accounts created through the Google OAuth flow.
type User struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Username   string         `gorm:"not null" json:"username"`
	Password   string         `json:"-"`
	FullName   string         `json:"full_name"`
	Avatar     string         `json:"avatar"`
	Role       string         `gorm:"not null;default:user" json:"role"`
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`
	Experience string         `json:"running_experience"`
	Location   string         `json:"location"`
	Bio        string         `json:"bio"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
