// Command main runs the database seeder for PaceUp.
package main

import (
	"flag"
	"log"

	"paceup/internal/bootstrap"
	"paceup/internal/config"
	"paceup/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numEvents := flag.Int("events", 20, "Number of events to create")
	numPosts := flag.Int("posts", 150, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a specific seeder preset (e.g., RaceSeason)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	if *preset != "" {
		log.Printf("Applying preset: %s (ignoring other flags)\n", *preset)
	} else {
		log.Printf("Target: %d users, %d events, %d posts, clean=%v\n",
			*numUsers, *numEvents, *numPosts, *shouldClean)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect and migrate; skip built-in seeding here so cleanup can run first
	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(db, seed.SeedOptions{SkipBcrypt: true, BatchSize: 100})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := seed.Announcements(db); err != nil {
		log.Fatalf("❌ Built-in announcement seeding failed: %v", err)
	}

	if *preset != "" {
		if err := s.ApplyPreset(*preset); err != nil {
			log.Fatalf("❌ Preset seeding failed: %v", err)
		}
	} else {
		users, err := s.SeedCommunity(*numUsers)
		if err != nil {
			log.Fatalf("❌ User seeding failed: %v", err)
		}
		events, err := s.SeedEvents(users, *numEvents)
		if err != nil {
			log.Fatalf("❌ Event seeding failed: %v", err)
		}
		posts, err := s.SeedPosts(users, *numPosts, seed.Distribution{Blog: 60, Content: 40})
		if err != nil {
			log.Fatalf("❌ Post seeding failed: %v", err)
		}
		if _, err := s.SeedRegistrations(users, events, 10); err != nil {
			log.Fatalf("❌ Registration seeding failed: %v", err)
		}
		if err := s.SeedLikes(users, posts, 5); err != nil {
			log.Fatalf("❌ Like seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DemoPassword)
}
