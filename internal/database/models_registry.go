package database

import "paceup/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.Event{},
		&models.EventRegistration{},
		&models.PaymentSession{},
		&models.Report{},
		&models.Notification{},
		&models.PasswordResetCode{},
		&models.EmailSubscription{},
		&models.Document{},
	}
}
