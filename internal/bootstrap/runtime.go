// Package bootstrap wires shared runtime dependencies for the commands.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"paceup/internal/cache"
	"paceup/internal/config"
	"paceup/internal/database"
	"paceup/internal/models"
	"paceup/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedBuiltIns installs the permanent announcement posts.
	SeedBuiltIns bool
}

// InitRuntime connects to DB and Redis and optionally runs built-in seeding.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("database migration failed: %w", err)
	}

	// May be nil if Redis is unreachable; callers degrade gracefully.
	r := cache.InitRedis(cfg.RedisURL)

	if err := ensureDevRootAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	if opts.SeedBuiltIns {
		if err := seed.Announcements(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in announcements: %w", err)
		}
	}

	return db, r, nil
}

// ensureDevRootAdmin creates or repairs a known admin account in
// development so a fresh checkout can reach the moderation screens
// without manual SQL.
func ensureDevRootAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "paceup_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "root@paceup.local"
	}
	password := cfg.DevRootPassword
	if password == "" {
		return fmt.Errorf("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.Where("email = ?", email).First(&root).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				Username: username,
				Email:    email,
				Password: string(hashedPassword),
				FullName: "PaceUp Root",
				Role:     "admin",
				IsActive: true,
			}
			return tx.Create(&root).Error
		case findErr != nil:
			return findErr
		default:
			updates := map[string]any{"role": "admin", "is_active": true}
			if cfg.DevRootForceCredentials {
				updates["username"] = username
				updates["password"] = string(hashedPassword)
			}
			return tx.Model(&models.User{}).Where("id = ?", root.ID).Updates(updates).Error
		}
	}); err != nil {
		return err
	}

	log.Printf("development root admin bootstrap ensured (%s)", email)
	return nil
}
