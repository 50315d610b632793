// Command main runs the database seeder for Guild Apply.
package main

import (
	"flag"
	"log"

	"guildapply/internal/catalog"
	"guildapply/internal/config"
	"guildapply/internal/database"
	"guildapply/internal/seed"
)

func main() {
	// Parse command line flags
	numApplicants := flag.Int("applicants", 25, "Number of applicants (one application each)")
	numModerators := flag.Int("moderators", 3, "Number of moderators to create")
	numBlacklisted := flag.Int("blacklisted", 2, "Number of blacklisted users to create")
	reviewed := flag.Float64("reviewed", 0.5, "Share of applications that already have a decision")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d applicants, %d moderators, %d blacklisted, clean=%v\n",
		*numApplicants, *numModerators, *numBlacklisted, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	templates, err := catalog.Load(cfg.ApplicationTypesFile)
	if err != nil {
		log.Fatalf("Failed to load application types: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.Seed(db, seed.Options{
		NumApplicants:  *numApplicants,
		NumModerators:  *numModerators,
		NumBlacklisted: *numBlacklisted,
		ReviewedRatio:  *reviewed,
		ShouldClean:    *shouldClean,
		Catalog:        templates,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! %d admin, %d moderators, %d blacklisted, applications by status: %v",
		summary.Admins, summary.Moderators, summary.Blacklisted, summary.Applications)
}
