package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	userrepo "storefront/internal/repository/user"
	cartsvc "storefront/internal/service/cart"
	usersvc "storefront/internal/service/user"
	wishlistsvc "storefront/internal/service/wishlist"
	"storefront/internal/sessioncart"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newTestRouter fills unset deps with empty stubs so each test only wires
// what it cares about.
func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.UserSvc == nil {
		deps.UserSvc = &stubUserSvc{}
	}
	if deps.CartSvc == nil {
		deps.CartSvc = &stubCartSvc{}
	}
	if deps.WishlistSvc == nil {
		deps.WishlistSvc = &stubWishlistSvc{}
	}
	if deps.Sessions == nil {
		deps.Sessions = sessioncart.New("", logDiscard())
	}
	router, err := buildRouter(logDiscard(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doJSON(router *gin.Engine, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type stubUserSvc struct {
	user       *domain.User
	token      string
	registerIn usersvc.RegisterInput
	loginErr   error
	lookupErr  error
	verifyErr  error
	resetErr   error
	resetToken string
	users      []domain.User
	total      int
	deleted    string
	lastRole   string
}

func (s *stubUserSvc) Register(_ context.Context, in usersvc.RegisterInput) (*domain.User, error) {
	s.registerIn = in
	return s.user, s.loginErr
}

func (s *stubUserSvc) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	return s.user, s.token, s.loginErr
}

func (s *stubUserSvc) VerifyToken(_ string) (string, string, error) {
	if s.verifyErr != nil {
		return "", "", s.verifyErr
	}
	return s.user.ID, s.user.Role, nil
}

func (s *stubUserSvc) LookupByToken(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.lookupErr
}

func (s *stubUserSvc) Profile(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.lookupErr
}

func (s *stubUserSvc) UpdateProfile(_ context.Context, _ string, _ usersvc.UpdateProfileInput) (*domain.User, error) {
	return s.user, nil
}

func (s *stubUserSvc) ForgotPassword(_ context.Context, _ string) (string, error) {
	return s.resetToken, s.resetErr
}

func (s *stubUserSvc) ResetPassword(_ context.Context, _, _ string) error {
	return s.resetErr
}

func (s *stubUserSvc) List(_ context.Context, _ userrepo.ListInput) ([]domain.User, int, error) {
	return s.users, s.total, nil
}

func (s *stubUserSvc) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.lookupErr
}

func (s *stubUserSvc) Delete(_ context.Context, id string) error {
	s.deleted = id
	return nil
}

func (s *stubUserSvc) ToggleActive(_ context.Context, _ string) (*domain.User, error) {
	return s.user, nil
}

func (s *stubUserSvc) ChangeRole(_ context.Context, _, role string) (*domain.User, error) {
	s.lastRole = role
	return s.user, nil
}

func (s *stubUserSvc) AccessTTLSeconds() int { return 3600 }

type stubCartSvc struct {
	cart        *domain.Cart
	err         error
	checkoutRes *cartsvc.CheckoutResult
	checkoutErr error
	history     []domain.Cart
	totals      *pricing.Totals
	summaryErr  error
	lastItemRef string
	lastQty     int
}

func (s *stubCartSvc) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) AddItem(_ context.Context, _ string, _ cartsvc.AddItemInput) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) SetQuantity(_ context.Context, _, itemRef string, qty int) (*domain.Cart, error) {
	s.lastItemRef = itemRef
	s.lastQty = qty
	return s.cart, s.err
}

func (s *stubCartSvc) RemoveItem(_ context.Context, _, itemRef string) (*domain.Cart, error) {
	s.lastItemRef = itemRef
	return s.cart, s.err
}

func (s *stubCartSvc) Clear(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) Checkout(_ context.Context, _ string) (*cartsvc.CheckoutResult, error) {
	return s.checkoutRes, s.checkoutErr
}

func (s *stubCartSvc) History(_ context.Context, _ string) ([]domain.Cart, error) {
	return s.history, s.err
}

func (s *stubCartSvc) Summary(_ context.Context, _, _ string) (*pricing.Totals, error) {
	return s.totals, s.summaryErr
}

type stubWishlistSvc struct {
	entries []domain.WishlistEntry
	addErr  error
	lastRef string
}

func (s *stubWishlistSvc) Get(_ context.Context, _ string) ([]domain.WishlistEntry, error) {
	return s.entries, nil
}

func (s *stubWishlistSvc) Add(_ context.Context, _ string, _ wishlistsvc.AddInput) ([]domain.WishlistEntry, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return s.entries, nil
}

func (s *stubWishlistSvc) Remove(_ context.Context, _, ref string) ([]domain.WishlistEntry, error) {
	s.lastRef = ref
	return s.entries, nil
}

type stubProductReader struct {
	products []domain.Product
	product  *domain.Product
	err      error
}

func (s *stubProductReader) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductReader) GetByRef(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

type stubUpstream struct {
	product *catalog.Product
	err     error
	calls   int
}

func (s *stubUpstream) Product(_ context.Context, _ int64) (*catalog.Product, error) {
	s.calls++
	return s.product, s.err
}
