package main

import (
	"log"
	"os"

	"github.com/datashield-dev/datashield/db"
	"github.com/datashield-dev/datashield/internal/auth"
	"github.com/datashield-dev/datashield/internal/handlers"
	"github.com/datashield-dev/datashield/internal/policy"
	"github.com/datashield-dev/datashield/internal/router"
	"github.com/datashield-dev/datashield/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatalf("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if path := os.Getenv("POLICY_CONFIG"); path != "" {
		cfg, err := policy.LoadConfig(path)

		if err != nil {
			log.Fatalf("Failed to load policy config: %v", err)
		}

		handlers.SetRuleSet(policy.NewRuleSet(cfg))
	} else {
		log.Println("POLICY_CONFIG not set, using built-in default rules")
	}

	if os.Getenv("SEED_DEMO") == "1" {
		if err := seed.PopulateDemoData(db.DB); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}

		log.Println("Demo data seeded")
	}

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
