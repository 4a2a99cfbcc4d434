// Package importer pulls the external demo catalog into the local products
// table so the API can serve listings without a round trip upstream.
package importer

import (
	"context"
	"fmt"
	"log"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type ProductSource interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// Importer copies the upstream catalog into the products table. Re-running
// it refreshes titles and prices; upserts are keyed by external id.
type Importer struct {
	source ProductSource
	repo   ProductWriter
	logger *log.Logger
}

func New(source ProductSource, repo ProductWriter, logger *log.Logger) *Importer {
	return &Importer{source: source, repo: repo, logger: logger}
}

// Run fetches the upstream list and upserts every product, returning the
// number imported.
func (i *Importer) Run(ctx context.Context) (int, error) {
	products, err := i.source.Products(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch catalog: %w", err)
	}

	imported := 0
	for _, p := range products {
		if err := i.save(ctx, p); err != nil {
			return imported, err
		}
		imported++
	}

	if i.logger != nil {
		i.logger.Printf("imported %d products", imported)
	}
	return imported, nil
}

func (i *Importer) save(ctx context.Context, p catalog.Product) error {
	if p.ID == 0 || p.Title == "" {
		return fmt.Errorf("invalid product row (missing id or title) for upstream id %d", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("negative price for upstream id %d", p.ID)
	}

	_, err := i.repo.Upsert(ctx, domain.Product{
		ExternalID:  p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	})
	if err != nil {
		return fmt.Errorf("upsert product %d: %w", p.ID, err)
	}
	return nil
}
