package seed

import (
	"errors"
	"fmt"
	"time"

	"paceup/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// announcementAuthorEmail identifies the system account that owns the
// built-in announcement posts.
const announcementAuthorEmail = "team@paceup.local"

// BuiltInAnnouncement is a permanent platform announcement post.
type BuiltInAnnouncement struct {
	Title   string
	Content string
}

// BuiltInAnnouncements defines the content posts every fresh install gets.
var BuiltInAnnouncements = []BuiltInAnnouncement{
	{
		Title:   "Welcome to PaceUp",
		Content: "PaceUp is where the local running community meets. Find an event, register for a distance that fits your training, and share your race stories on the blog.",
	},
	{
		Title:   "How event registration works",
		Content: "Free events register you immediately, pending the organizer's check. Paid events walk you through a QR payment that holds your spot the moment it clears.",
	},
	{
		Title:   "Posting guidelines",
		Content: "Blog posts are reviewed before they go public. Keep it about running: training logs, race reports, gear talk, and routes are all welcome.",
	},
}

// Announcements seeds the permanent announcement posts under a system
// account. Safe to run repeatedly: posts are matched by title and updated
// in place.
func Announcements(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		author, err := ensureAnnouncementAuthor(tx)
		if err != nil {
			return err
		}

		for _, item := range BuiltInAnnouncements {
			var existing models.Post
			findErr := tx.Where("user_id = ? AND title = ?", author.ID, item.Title).
				First(&existing).Error
			switch {
			case findErr == nil:
				if existing.Content != item.Content {
					if err := tx.Model(&models.Post{}).Where("id = ?", existing.ID).
						Update("content", item.Content).Error; err != nil {
						return fmt.Errorf("refresh announcement %q: %w", item.Title, err)
					}
				}
				continue
			case !errors.Is(findErr, gorm.ErrRecordNotFound):
				return findErr
			}

			post := models.Post{
				Title:    item.Title,
				Content:  item.Content,
				PostType: models.PostTypeContent,
				Status:   models.StatusApproved,
				UserID:   author.ID,
			}
			if err := tx.Create(&post).Error; err != nil {
				return fmt.Errorf("seed announcement %q: %w", item.Title, err)
			}
		}
		return nil
	})
}

func ensureAnnouncementAuthor(tx *gorm.DB) (*models.User, error) {
	var author models.User
	err := tx.Where("email = ?", announcementAuthorEmail).First(&author).Error
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// The account cannot be logged into: the password is random and
	// discarded.
	hash, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("%d", time.Now().UnixNano())), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	author = models.User{
		Email:    announcementAuthorEmail,
		Username: "paceup_team",
		FullName: "PaceUp Team",
		Password: string(hash),
		Role:     "admin",
		IsActive: true,
	}
	if err := tx.Create(&author).Error; err != nil {
		return nil, fmt.Errorf("create announcement author: %w", err)
	}
	return &author, nil
}
