package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/repository/product"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	client := catalog.New(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	imp := importer.New(client, product.NewPostgres(pool), logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products from %s in %s\n", count, cfg.CatalogBaseURL, time.Since(start).Truncate(time.Millisecond))
}
