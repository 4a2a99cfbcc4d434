package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Fatalf("seed failed: %v", err)
	}

	logger.Println("seed data applied")
}
