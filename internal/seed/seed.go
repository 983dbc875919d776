package seed

import (
	"fmt"
	"log"

	"paceup/internal/models"

	"gorm.io/gorm"
)

// Distribution splits a post count between blog and content posts.
type Distribution struct {
	Blog    int // percent
	Content int // percent
}

var defaultDistribution = Distribution{Blog: 60, Content: 40}

// Seeder orchestrates demo-data generation.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with optional generation options.
func NewSeeder(db *gorm.DB, opts ...SeedOptions) *Seeder {
	var o SeedOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Seeder{db: db, factory: NewFactory(db, o)}
}

// ClearAll deletes seeded rows from every domain table. Hard-deletes on
// purpose, soft-deleted rows would still trip unique indexes on reseed.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []any{
		&models.Notification{},
		&models.Report{},
		&models.PostLike{},
		&models.PaymentSession{},
		&models.EventRegistration{},
		&models.PasswordResetCode{},
		&models.Document{},
		&models.Post{},
		&models.Event{},
		&models.EmailSubscription{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// SeedCommunity creates n users. One in twenty is promoted to admin so the
// moderation screens have someone to log in as.
func (s *Seeder) SeedCommunity(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		admin := i > 0 && i%20 == 0
		user, err := s.factory.CreateUser(func(u *models.User) {
			if admin {
				u.Role = "admin"
			}
		})
		if err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))
	return users, nil
}

// SeedEvents creates n events organized by random users.
func (s *Seeder) SeedEvents(users []*models.User, n int) ([]*models.Event, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to organize events")
	}
	events := make([]*models.Event, 0, n)
	for i := 0; i < n; i++ {
		organizer := users[s.factory.rng.Intn(len(users))]
		event, err := s.factory.CreateEvent(organizer)
		if err != nil {
			return nil, fmt.Errorf("create event %d: %w", i, err)
		}
		events = append(events, event)
	}
	log.Printf("seeded %d events", len(events))
	return events, nil
}

// SeedPosts creates n posts split between blog and content per the given
// distribution, batching inserts through the factory.
func (s *Seeder) SeedPosts(users []*models.User, n int, dist Distribution) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	blogCount, contentCount := computeCounts(n, dist)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < blogCount; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		posts = append(posts, s.factory.BuildPost(author, models.PostTypeBlog))
	}
	for i := 0; i < contentCount; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		posts = append(posts, s.factory.BuildPost(author, models.PostTypeContent))
	}

	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("persist posts: %w", err)
	}
	log.Printf("seeded %d posts (%d blog, %d content)", len(posts), blogCount, contentCount)
	return posts, nil
}

// SeedRegistrations signs a random subset of users up for each event,
// respecting the one-registration-per-user rule.
func (s *Seeder) SeedRegistrations(users []*models.User, events []*models.Event, perEvent int) (int, error) {
	total := 0
	for _, event := range events {
		if event.Status != models.StatusApproved {
			continue
		}

		picked := s.factory.rng.Perm(len(users))
		count := perEvent
		if count > len(picked) {
			count = len(picked)
		}
		for _, idx := range picked[:count] {
			runner := users[idx]
			if runner.ID == event.OrganizerID {
				continue
			}
			if _, err := s.factory.CreateRegistration(event, runner); err != nil {
				return total, fmt.Errorf("register user for %s: %w", event.Title, err)
			}
			total++
		}
	}
	log.Printf("seeded %d registrations", total)
	return total, nil
}

// SeedLikes sprinkles likes over approved posts.
func (s *Seeder) SeedLikes(users []*models.User, posts []*models.Post, perPost int) error {
	for _, post := range posts {
		if post.Status != models.StatusApproved {
			continue
		}
		picked := s.factory.rng.Perm(len(users))
		count := s.factory.rng.Intn(perPost + 1)
		if count > len(picked) {
			count = len(picked)
		}
		for _, idx := range picked[:count] {
			like := &models.PostLike{PostID: post.ID, UserID: users[idx].ID}
			if err := s.db.Create(like).Error; err != nil {
				return fmt.Errorf("like post %s: %w", post.ID, err)
			}
		}
	}
	return nil
}

// Preset is a named, fully-wired seeding scenario.
type Preset struct {
	Users                int
	Events               int
	Posts                int
	RegistrationsPerEvnt int
	LikesPerPost         int
}

// Presets available to the seed command.
var Presets = map[string]Preset{
	"Minimal":    {Users: 10, Events: 5, Posts: 20, RegistrationsPerEvnt: 3, LikesPerPost: 2},
	"Demo":       {Users: 50, Events: 20, Posts: 150, RegistrationsPerEvnt: 10, LikesPerPost: 5},
	"RaceSeason": {Users: 200, Events: 80, Posts: 600, RegistrationsPerEvnt: 40, LikesPerPost: 10},
}

// ApplyPreset runs a named preset end to end.
func (s *Seeder) ApplyPreset(name string) error {
	preset, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}

	users, err := s.SeedCommunity(preset.Users)
	if err != nil {
		return err
	}
	events, err := s.SeedEvents(users, preset.Events)
	if err != nil {
		return err
	}
	posts, err := s.SeedPosts(users, preset.Posts, defaultDistribution)
	if err != nil {
		return err
	}
	if _, err := s.SeedRegistrations(users, events, preset.RegistrationsPerEvnt); err != nil {
		return err
	}
	return s.SeedLikes(users, posts, preset.LikesPerPost)
}

// computeCounts splits total across the distribution, assigning the
// rounding remainder to blog posts.
func computeCounts(total int, dist Distribution) (blog, content int) {
	content = total * dist.Content / 100
	blog = total - content
	return blog, content
}
