package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartrepo "storefront/internal/repository/cart"
)

type stubRepo struct {
	activeCart   *domain.Cart
	activeErr    error
	ensureCart   *domain.Cart
	ensureErr    error
	addResult    *domain.Cart
	addErr       error
	lastAdd      cartrepo.AddItemInput
	setResult    *domain.Cart
	setErr       error
	lastSetRef   string
	lastSetQty   int
	removeResult *domain.Cart
	removeErr    error
	lastRemove   string
	removeCalls  int
	clearResult  *domain.Cart
	completed    *domain.Cart
	newActive    *domain.Cart
	checkoutErr  error
	history      []domain.Cart
	historyErr   error
}

func (s *stubRepo) GetActive(_ context.Context, _ string) (*domain.Cart, error) {
	return s.activeCart, s.activeErr
}

func (s *stubRepo) EnsureActive(_ context.Context, _ string) (*domain.Cart, error) {
	return s.ensureCart, s.ensureErr
}

func (s *stubRepo) AddItem(_ context.Context, _ string, in cartrepo.AddItemInput) (*domain.Cart, error) {
	s.lastAdd = in
	return s.addResult, s.addErr
}

func (s *stubRepo) SetQuantity(_ context.Context, _, itemRef string, quantity int) (*domain.Cart, error) {
	s.lastSetRef = itemRef
	s.lastSetQty = quantity
	return s.setResult, s.setErr
}

func (s *stubRepo) RemoveItem(_ context.Context, _, itemRef string) (*domain.Cart, error) {
	s.lastRemove = itemRef
	s.removeCalls++
	return s.removeResult, s.removeErr
}

func (s *stubRepo) Clear(_ context.Context, _ string) (*domain.Cart, error) {
	return s.clearResult, nil
}

func (s *stubRepo) Checkout(_ context.Context, _ string) (*domain.Cart, *domain.Cart, error) {
	return s.completed, s.newActive, s.checkoutErr
}

func (s *stubRepo) History(_ context.Context, _ string) ([]domain.Cart, error) {
	return s.history, s.historyErr
}

type stubProductRepo struct {
	product *domain.Product
	err     error
	lastRef string
}

func (s *stubProductRepo) GetByRef(_ context.Context, ref string) (*domain.Product, error) {
	s.lastRef = ref
	return s.product, s.err
}

func extID(v int64) *int64 { return &v }

func price(v float64) *float64 { return &v }

func TestGetReturnsSyntheticEmptyCart(t *testing.T) {
	svc := &Service{repo: &stubRepo{activeErr: domain.ErrNotFound}}
	cart, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.UserID != "u1" || cart.Status != domain.CartActive {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if cart.TotalItems != 0 || cart.TotalPrice != 0 || len(cart.Items) != 0 {
		t.Fatalf("synthetic cart must be empty: %+v", cart)
	}
}

func TestGetPassesThroughRepoError(t *testing.T) {
	svc := &Service{repo: &stubRepo{activeErr: errors.New("boom")}}
	_, err := svc.Get(context.Background(), "u1")
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestAddItemRequiresReference(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	_, err := svc.AddItem(context.Background(), "u1", AddItemInput{Title: "x", Price: price(1)})
	if err == nil || err.Error() != "product reference required" {
		t.Fatalf("expected reference error, got %v", err)
	}
}

func TestAddItemDefaultsQuantity(t *testing.T) {
	repo := &stubRepo{addResult: &domain.Cart{ID: "c1"}}
	svc := &Service{repo: repo}
	_, err := svc.AddItem(context.Background(), "u1", AddItemInput{
		ExternalID: extID(7), Title: "Backpack", Price: price(109.95),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastAdd.Quantity != 1 {
		t.Fatalf("quantity = %d, want 1", repo.lastAdd.Quantity)
	}
}

func TestAddItemResolvesSnapshotFromCatalog(t *testing.T) {
	repo := &stubRepo{addResult: &domain.Cart{ID: "c1"}}
	products := &stubProductRepo{product: &domain.Product{
		ID: "p-int", ExternalID: 7, Title: "Backpack", Price: 109.95, Image: "img",
	}}
	svc := &Service{repo: repo, productRepo: products}

	_, err := svc.AddItem(context.Background(), "u1", AddItemInput{ExternalID: extID(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products.lastRef != "7" {
		t.Fatalf("catalog looked up %q, want 7", products.lastRef)
	}
	got := repo.lastAdd
	if got.Title != "Backpack" || got.Price != 109.95 || got.Image != "img" {
		t.Fatalf("snapshot not filled: %+v", got)
	}
	if got.ProductID == nil || *got.ProductID != "p-int" {
		t.Fatalf("internal id not filled: %+v", got)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo, productRepo: &stubProductRepo{err: domain.ErrNotFound}}
	_, err := svc.AddItem(context.Background(), "u1", AddItemInput{ExternalID: extID(99)})
	if err == nil || err.Error() != "product not found" {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	repo := &stubRepo{removeResult: &domain.Cart{ID: "c1"}}
	svc := &Service{repo: repo}
	_, err := svc.SetQuantity(context.Background(), "u1", "item-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.removeCalls != 1 || repo.lastRemove != "item-1" {
		t.Fatalf("expected removal of item-1, got calls=%d ref=%q", repo.removeCalls, repo.lastRemove)
	}
	if repo.lastSetQty != 0 {
		t.Fatalf("SetQuantity must not reach the repo for qty<=0")
	}
}

func TestSetQuantityPositive(t *testing.T) {
	repo := &stubRepo{setResult: &domain.Cart{ID: "c1"}}
	svc := &Service{repo: repo}
	_, err := svc.SetQuantity(context.Background(), "u1", "item-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSetRef != "item-1" || repo.lastSetQty != 3 {
		t.Fatalf("unexpected repo call: ref=%q qty=%d", repo.lastSetRef, repo.lastSetQty)
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	// The repo treats absent refs as a no-op, the service passes that
	// through unchanged.
	unchanged := &domain.Cart{ID: "c1", TotalItems: 2, TotalPrice: 50}
	repo := &stubRepo{removeResult: unchanged}
	svc := &Service{repo: repo}
	got, err := svc.RemoveItem(context.Background(), "u1", "no-such-item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalItems != 2 || got.TotalPrice != 50 {
		t.Fatalf("totals changed on no-op removal: %+v", got)
	}
}

func TestCheckoutReturnsBothCarts(t *testing.T) {
	now := time.Now()
	repo := &stubRepo{
		completed: &domain.Cart{ID: "old", Status: domain.CartCompleted, TotalPrice: 100, TotalItems: 2, CompletedAt: &now},
		newActive: &domain.Cart{ID: "new", Status: domain.CartActive},
	}
	svc := &Service{repo: repo}
	res, err := svc.Checkout(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Completed.ID != "old" || res.Completed.CompletedAt == nil {
		t.Fatalf("unexpected completed cart: %+v", res.Completed)
	}
	if res.Active.ID != "new" || res.Active.TotalItems != 0 || res.Active.TotalPrice != 0 {
		t.Fatalf("unexpected active cart: %+v", res.Active)
	}
}

func TestCheckoutErrors(t *testing.T) {
	for _, want := range []error{domain.ErrNoActiveCart, domain.ErrEmptyCart} {
		svc := &Service{repo: &stubRepo{checkoutErr: want}}
		_, err := svc.Checkout(context.Background(), "u1")
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestSummaryWithCode(t *testing.T) {
	cart := &domain.Cart{
		ID:    "c1",
		Items: []domain.CartItem{{Price: 50, Quantity: 2}},
	}
	svc := &Service{repo: &stubRepo{activeCart: cart}}
	totals, err := svc.Summary(context.Background(), "u1", "save10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Subtotal != 100 || totals.DiscountAmount != 10 || totals.Total != 99 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestSummaryInvalidCode(t *testing.T) {
	svc := &Service{repo: &stubRepo{activeCart: &domain.Cart{}}}
	_, err := svc.Summary(context.Background(), "u1", "XXXX")
	if !errors.Is(err, pricing.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestSummaryKeepsAppliedCode(t *testing.T) {
	cart := &domain.Cart{Items: []domain.CartItem{{Price: 50, Quantity: 2}}}
	svc := &Service{repo: &stubRepo{activeCart: cart}}

	if _, err := svc.Summary(context.Background(), "u1", "SAVE10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A blank code reuses the previously applied discount.
	totals, err := svc.Summary(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.DiscountPercent != 10 || totals.Total != 99 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestSummaryInvalidCodeClearsApplied(t *testing.T) {
	cart := &domain.Cart{Items: []domain.CartItem{{Price: 50, Quantity: 2}}}
	svc := &Service{repo: &stubRepo{activeCart: cart}}

	if _, err := svc.Summary(context.Background(), "u1", "SAVE20"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Summary(context.Background(), "u1", "BOGUS"); !errors.Is(err, pricing.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}

	totals, err := svc.Summary(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.DiscountPercent != 0 || totals.Total != 110 {
		t.Fatalf("invalid code must clear the discount: %+v", totals)
	}
}

func TestCheckoutResetsDiscount(t *testing.T) {
	cart := &domain.Cart{Items: []domain.CartItem{{Price: 50, Quantity: 2}}}
	now := time.Now()
	svc := &Service{repo: &stubRepo{
		activeCart: cart,
		completed:  &domain.Cart{ID: "old", Status: domain.CartCompleted, CompletedAt: &now},
		newActive:  &domain.Cart{ID: "new", Status: domain.CartActive},
	}}

	if _, err := svc.Summary(context.Background(), "u1", "SAVE30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Checkout(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals, err := svc.Summary(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.DiscountPercent != 0 {
		t.Fatalf("checkout must reset the discount: %+v", totals)
	}
}

func TestHistoryPassThrough(t *testing.T) {
	history := []domain.Cart{{ID: "h1", Status: domain.CartCompleted}}
	svc := &Service{repo: &stubRepo{history: history}}
	got, err := svc.History(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "h1" {
		t.Fatalf("unexpected history: %+v", got)
	}
}
