package seed

import (
	"log"
	"os"
	"testing"

	"paceup/internal/database"
	"paceup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")

	var err error
	testDB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Printf("Seed tests skipped: sqlite unavailable: %v", err)
		os.Exit(0)
	}
	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("failed to migrate test schema: %v", err)
	}

	os.Exit(m.Run())
}

func TestComputeCounts_Default(t *testing.T) {
	blog, content := computeCounts(10, defaultDistribution)
	assert.Equal(t, 10, blog+content)
	assert.Equal(t, 6, blog)
	assert.Equal(t, 4, content)
}

func TestComputeCounts_RemainderGoesToBlog(t *testing.T) {
	blog, content := computeCounts(7, defaultDistribution)
	assert.Equal(t, 7, blog+content)
	assert.Equal(t, 2, content)
	assert.Equal(t, 5, blog)
}

func TestFactory_CreateUser(t *testing.T) {
	f := NewFactory(testDB, SeedOptions{SkipBcrypt: true})

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "user", user.Role)
	assert.True(t, user.IsActive)
	assert.Contains(t, experiences, user.Experience)
}

func TestFactory_CreateEvent_DeadlineBeforeDate(t *testing.T) {
	f := NewFactory(testDB, SeedOptions{SkipBcrypt: true})
	organizer, err := f.CreateUser()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		event, err := f.CreateEvent(organizer)
		require.NoError(t, err)
		assert.True(t, event.RegistrationDeadline.Before(event.Date))
		assert.NotEmpty(t, event.Categories)
		if event.Price > 0 {
			assert.NotEmpty(t, event.BankAccountNumber)
		}
	}
}

func TestFactory_DryRunWritesNothing(t *testing.T) {
	f := NewFactory(testDB, SeedOptions{DryRun: true, SkipBcrypt: true})

	var before int64
	require.NoError(t, testDB.Model(&models.User{}).Count(&before).Error)

	_, err := f.CreateUser()
	require.NoError(t, err)

	var after int64
	require.NoError(t, testDB.Model(&models.User{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestSeeder_MinimalPreset(t *testing.T) {
	s := NewSeeder(testDB, SeedOptions{SkipBcrypt: true, BatchSize: 50})
	require.NoError(t, s.ClearAll())
	require.NoError(t, s.ApplyPreset("Minimal"))

	var users, events, posts int64
	require.NoError(t, testDB.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, testDB.Model(&models.Event{}).Count(&events).Error)
	require.NoError(t, testDB.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(10), users)
	assert.Equal(t, int64(5), events)
	assert.Equal(t, int64(20), posts)
}

func TestSeeder_UnknownPreset(t *testing.T) {
	s := NewSeeder(testDB)
	assert.Error(t, s.ApplyPreset("Enormous"))
}

func TestAnnouncements_Idempotent(t *testing.T) {
	require.NoError(t, Announcements(testDB))
	require.NoError(t, Announcements(testDB))

	var count int64
	require.NoError(t, testDB.Model(&models.Post{}).
		Where("title = ?", BuiltInAnnouncements[0].Title).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
