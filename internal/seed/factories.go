// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"paceup/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune how the factory generates data.
type SeedOptions struct {
	// DryRun builds entities without persisting them.
	DryRun bool
	// SkipBcrypt uses a precomputed hash instead of hashing per user.
	// Hashing 200 users at DefaultCost dominates seeding time otherwise.
	SkipBcrypt bool
	// MaxDays is how far back in time created_at values are spread.
	MaxDays int
	// BatchSize for bulk inserts. Zero means insert one by one.
	BatchSize int
}

// DemoPassword is the password every seeded user shares.
const DemoPassword = "password123"

// precomputed hash of DemoPassword, filled on first SkipBcrypt use
var demoPasswordHash string

var experiences = []string{"beginner", "intermediate", "advanced", "expert"}

var eventCategories = [][]string{
	{"5k"},
	{"5k", "10k"},
	{"10k", "half-marathon"},
	{"5k", "10k", "half-marathon"},
	{"half-marathon", "marathon"},
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Factory) passwordHash() (string, error) {
	if f.opts.SkipBcrypt {
		if demoPasswordHash == "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
			if err != nil {
				return "", err
			}
			demoPasswordHash = string(hash)
		}
		return demoPasswordHash, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	return string(hash), err
}

// pastTime returns a timestamp spread over the configured MaxDays window.
func (f *Factory) pastTime() time.Time {
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	user := &models.User{
		Username:   gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:      gofakeit.Email(),
		Password:   hash,
		FullName:   gofakeit.Name(),
		Avatar:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:       "user",
		IsActive:   true,
		Experience: experiences[f.rng.Intn(len(experiences))],
		Location:   gofakeit.City(),
		Bio:        gofakeit.Sentence(10),
		CreatedAt:  f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateUser: %s (no DB write)", user.Username)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateEvent constructs and persists a running event. Roughly one in three
// events is paid; most seeded events are already approved so the public
// catalog is not empty.
func (f *Factory) CreateEvent(organizer *models.User, overrides ...func(*models.Event)) (*models.Event, error) {
	daysAhead := 7 + f.rng.Intn(120)
	date := time.Now().Add(time.Duration(daysAhead) * 24 * time.Hour)

	event := &models.Event{
		Title:                fmt.Sprintf("%s %s Run", gofakeit.City(), gofakeit.Word()),
		Description:          gofakeit.Paragraph(1, 3, 8, " "),
		Location:             gofakeit.City(),
		Date:                 date,
		Time:                 fmt.Sprintf("%02d:%02d", 5+f.rng.Intn(4), []int{0, 15, 30, 45}[f.rng.Intn(4)]),
		RegistrationDeadline: date.Add(-72 * time.Hour),
		MaxParticipants:      50 + f.rng.Intn(950),
		Categories:           models.StringList(eventCategories[f.rng.Intn(len(eventCategories))]),
		Status:               models.StatusApproved,
		OrganizerID:          organizer.ID,
		CreatedAt:            f.pastTime(),
	}

	if f.rng.Intn(3) == 0 {
		event.Price = int64(50000 * (1 + f.rng.Intn(10)))
		event.BankAccountNumber = gofakeit.AchAccount()
		event.BankAccountName = organizer.FullName
		event.BankName = gofakeit.Company() + " Bank"
	}
	if f.rng.Intn(5) == 0 {
		event.Status = models.StatusPending
	}

	for _, override := range overrides {
		override(event)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateEvent: %s (no DB write)", event.Title)
		return event, nil
	}
	if err := f.db.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// BuildPost constructs a post without persisting it. Useful for batching.
func (f *Factory) BuildPost(author *models.User, postType string, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(2, 4, 10, "\n"),
		PostType:  postType,
		UserID:    author.ID,
		CreatedAt: f.pastTime(),
	}

	switch postType {
	case models.PostTypeContent:
		post.Status = models.StatusApproved
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	default:
		// Blog posts go through moderation; skew seeded ones approved so
		// the public pages have content.
		post.Status = models.StatusApproved
		if f.rng.Intn(4) == 0 {
			post.Status = models.StatusPending
		}
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	if f.opts.BatchSize > 0 {
		return f.db.CreateInBatches(&posts, f.opts.BatchSize).Error
	}
	return f.db.Create(&posts).Error
}

// CreateRegistration registers a runner for an event in one of its
// categories. The (event, user) unique index makes repeats fail, so pick
// distinct runners per event when seeding.
func (f *Factory) CreateRegistration(event *models.Event, runner *models.User, overrides ...func(*models.EventRegistration)) (*models.EventRegistration, error) {
	category := "5k"
	if len(event.Categories) > 0 {
		category = event.Categories[f.rng.Intn(len(event.Categories))]
	}

	reg := &models.EventRegistration{
		EventID:  event.ID,
		UserID:   runner.ID,
		Category: category,
		Status:   []string{models.StatusPending, models.StatusApproved}[f.rng.Intn(2)],
	}
	for _, override := range overrides {
		override(reg)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateRegistration: event=%s user=%s (no DB write)", event.ID, runner.ID)
		return reg, nil
	}
	if err := f.db.Create(reg).Error; err != nil {
		return nil, err
	}
	return reg, nil
}
