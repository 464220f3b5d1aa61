// Command main runs the database seeder for CoachHub.
package main

import (
	"flag"
	"log"

	"coachhub/internal/config"
	"coachhub/internal/database"
	"coachhub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of users to create")
	numReports := flag.Int("reports", 120, "Number of feedback reports to create")
	numPosts := flag.Int("posts", 12, "Number of blog posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d users, %d reports, %d posts, clean=%v\n",
		*numUsers, *numReports, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}
	if err := s.SeedReports(users, *numReports); err != nil {
		log.Fatalf("❌ Report seeding failed: %v", err)
	}
	if err := s.SeedBlog(users, *numPosts); err != nil {
		log.Fatalf("❌ Blog seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
