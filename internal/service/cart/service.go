package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartrepo "storefront/internal/repository/cart"
)

// Service is the server-authoritative cart aggregate plus the checkout
// orchestrator. All operations are scoped to one owner; repeat-adding a
// product increases its quantity (the session cart's toggle contract lives
// elsewhere and must not leak in here).
type Service struct {
	repo        cartRepo
	productRepo productRepo

	mu        sync.Mutex
	discounts map[string]*pricing.Discount
}

type cartRepo interface {
	GetActive(ctx context.Context, userID string) (*domain.Cart, error)
	EnsureActive(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, in cartrepo.AddItemInput) (*domain.Cart, error)
	SetQuantity(ctx context.Context, userID, itemRef string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemRef string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
	Checkout(ctx context.Context, userID string) (completed, active *domain.Cart, err error)
	History(ctx context.Context, userID string) ([]domain.Cart, error)
}

type productRepo interface {
	GetByRef(ctx context.Context, ref string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{
		repo:        repo,
		productRepo: products,
		discounts:   make(map[string]*pricing.Discount),
	}
}

// AddItemInput is the payload for adding a product to the active cart. When
// the title or price are missing they are resolved from the local catalog.
type AddItemInput struct {
	ProductID  *string  `json:"productId,omitempty"`
	ExternalID *int64   `json:"externalId,omitempty"`
	Title      string   `json:"title"`
	Price      *float64 `json:"price,omitempty"`
	Image      string   `json:"image,omitempty"`
	Quantity   int      `json:"quantity"`
}

// CheckoutResult pairs the immutable order record with its successor.
type CheckoutResult struct {
	Completed *domain.Cart `json:"completedCart"`
	Active    *domain.Cart `json:"activeCart"`
}

// Get returns the owner's active cart, or a synthetic empty cart when none
// has been created yet.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EmptyCart(userID), nil
		}
		return nil, err
	}
	return cart, nil
}

// EnsureActive creates the active cart if absent. Idempotent; also the
// repair path if a previous checkout was interrupted.
func (s *Service) EnsureActive(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.EnsureActive(ctx, userID)
}

func (s *Service) AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.Cart, error) {
	if in.ProductID == nil && in.ExternalID == nil {
		return nil, domain.Validation("product reference required")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, domain.Validation("quantity must be positive")
	}

	repoIn := cartrepo.AddItemInput{
		ProductID:  in.ProductID,
		ExternalID: in.ExternalID,
		Title:      strings.TrimSpace(in.Title),
		Image:      in.Image,
		Quantity:   in.Quantity,
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, domain.Validation("price must not be negative")
		}
		repoIn.Price = *in.Price
	}

	if repoIn.Title == "" || in.Price == nil {
		if err := s.fillFromCatalog(ctx, &repoIn); err != nil {
			return nil, err
		}
	}

	return s.repo.AddItem(ctx, userID, repoIn)
}

func (s *Service) SetQuantity(ctx context.Context, userID, itemRef string, quantity int) (*domain.Cart, error) {
	if strings.TrimSpace(itemRef) == "" {
		return nil, domain.Validation("item reference required")
	}
	if quantity <= 0 {
		// Dropping to zero removes the line; it is never kept at zero.
		return s.repo.RemoveItem(ctx, userID, itemRef)
	}
	return s.repo.SetQuantity(ctx, userID, itemRef, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemRef string) (*domain.Cart, error) {
	if strings.TrimSpace(itemRef) == "" {
		return nil, domain.Validation("item reference required")
	}
	return s.repo.RemoveItem(ctx, userID, itemRef)
}

func (s *Service) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.Clear(ctx, userID)
}

// Checkout completes the active cart and provisions a fresh empty one in a
// single transaction, returning both. The successor starts without any
// applied discount.
func (s *Service) Checkout(ctx context.Context, userID string) (*CheckoutResult, error) {
	completed, active, err := s.repo.Checkout(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	delete(s.discounts, userID)
	s.mu.Unlock()
	return &CheckoutResult{Completed: completed, Active: active}, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]domain.Cart, error) {
	return s.repo.History(ctx, userID)
}

// Summary prices the active cart. A non-blank code replaces the user's
// applied discount; a blank code reuses whatever was applied before, and an
// invalid code fails after clearing it.
func (s *Service) Summary(ctx context.Context, userID, code string) (*pricing.Totals, error) {
	percent, err := s.applyDiscount(userID, code)
	if err != nil {
		return nil, err
	}
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals := pricing.Compute(cart.Items, percent)
	return &totals, nil
}

func (s *Service) applyDiscount(userID, code string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discounts == nil {
		s.discounts = make(map[string]*pricing.Discount)
	}
	d := s.discounts[userID]
	if d == nil {
		d = &pricing.Discount{}
		s.discounts[userID] = d
	}
	if strings.TrimSpace(code) != "" {
		if err := d.Apply(code); err != nil {
			return 0, err
		}
	}
	return d.Percent, nil
}

// fillFromCatalog completes the line snapshot from the local product table.
func (s *Service) fillFromCatalog(ctx context.Context, in *cartrepo.AddItemInput) error {
	if s.productRepo == nil {
		return domain.Validation("title and price required")
	}
	ref := ""
	switch {
	case in.ProductID != nil:
		ref = domain.InternalRef(*in.ProductID).Value
	case in.ExternalID != nil:
		ref = domain.ExternalRef(*in.ExternalID).Value
	}
	p, err := s.productRepo.GetByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Validation("product not found")
		}
		return err
	}
	if in.Title == "" {
		in.Title = p.Title
	}
	if in.Price == 0 {
		in.Price = p.Price
	}
	if in.Image == "" {
		in.Image = p.Image
	}
	if in.ProductID == nil {
		id := p.ID
		in.ProductID = &id
	}
	if in.ExternalID == nil {
		ext := p.ExternalID
		in.ExternalID = &ext
	}
	return nil
}
