package repository

import "github.com/google/uuid"

// newID mints a UUID primary key for raw INSERTs that bypass GORM hooks.
func newID() string {
	return uuid.NewString()
}
