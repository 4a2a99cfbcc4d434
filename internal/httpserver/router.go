package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartsvc "storefront/internal/service/cart"
	usersvc "storefront/internal/service/user"
	wishlistsvc "storefront/internal/service/wishlist"
	"storefront/internal/sessioncart"
	userrepo "storefront/internal/repository/user"
)

// Deps are the collaborators the router needs. Interfaces are declared on
// the consumer side so handler tests can stub them.
type Deps struct {
	UserSvc     userService
	CartSvc     cartService
	WishlistSvc wishlistService
	Products    productReader
	Catalog     upstreamCatalog
	Sessions    sessionStore
	CORSOrigin  string
}

type userService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	VerifyToken(token string) (userID, role string, err error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Profile(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in usersvc.UpdateProfileInput) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	List(ctx context.Context, in userrepo.ListInput) ([]domain.User, int, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*domain.User, error)
	ChangeRole(ctx context.Context, id, role string) (*domain.User, error)
	AccessTTLSeconds() int
}

type cartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, in cartsvc.AddItemInput) (*domain.Cart, error)
	SetQuantity(ctx context.Context, userID, itemRef string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemRef string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
	Checkout(ctx context.Context, userID string) (*cartsvc.CheckoutResult, error)
	History(ctx context.Context, userID string) ([]domain.Cart, error)
	Summary(ctx context.Context, userID, code string) (*pricing.Totals, error)
}

type wishlistService interface {
	Get(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
	Add(ctx context.Context, userID string, in wishlistsvc.AddInput) ([]domain.WishlistEntry, error)
	Remove(ctx context.Context, userID, ref string) ([]domain.WishlistEntry, error)
}

type productReader interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByRef(ctx context.Context, ref string) (*domain.Product, error)
}

// upstreamCatalog is the optional live fallback for products not yet
// imported locally.
type upstreamCatalog interface {
	Product(ctx context.Context, id int64) (*catalog.Product, error)
}

type sessionStore interface {
	NewSession() string
	Get(session string) []sessioncart.Item
	Toggle(session string, item sessioncart.Item) []sessioncart.Item
	IncreaseQty(session string, id int64) []sessioncart.Item
	DecreaseQty(session string, id int64) []sessioncart.Item
	Remove(session string, id int64) []sessioncart.Item
	Clear(session string)
	Totals(session string) sessioncart.Totals
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.UserSvc == nil || deps.CartSvc == nil || deps.WishlistSvc == nil {
		return nil, errors.New("httpserver: missing service dependencies")
	}
	if deps.Sessions == nil {
		return nil, errors.New("httpserver: missing session store")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if deps.CORSOrigin == "" || deps.CORSOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{deps.CORSOrigin}
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", sessionHeader)
	router.Use(cors.New(corsCfg))

	h := &handlers{
		logger:    logger,
		users:     deps.UserSvc,
		carts:     deps.CartSvc,
		wishlists: deps.WishlistSvc,
		products:  deps.Products,
		catalog:   deps.Catalog,
		sessions:  deps.Sessions,
	}

	api := router.Group("/api")
	api.GET("/health", healthHandler)
	api.GET("/ready", readyHandler(db))

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)

	auth := api.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/forgot-password", h.forgotPassword)
	auth.POST("/reset-password", h.resetPassword)
	auth.GET("/verify", h.verify)
	auth.GET("/me", h.authRequired, h.me)
	auth.POST("/logout", h.authRequired, h.logout)

	session := api.Group("/session/cart")
	session.GET("", h.sessionCartGet)
	session.POST("", h.sessionCartToggle)
	session.PATCH("/:id", h.sessionCartAdjust)
	session.DELETE("/:id", h.sessionCartRemove)
	session.DELETE("", h.sessionCartClear)

	users := api.Group("/users", h.authRequired)
	users.GET("/profile", h.getProfile)
	users.PUT("/profile", h.updateProfile)

	users.GET("/wishlist", h.getWishlist)
	users.POST("/wishlist", h.addWishlist)
	users.DELETE("/wishlist/:productId", h.removeWishlist)

	users.GET("/cart", h.getCart)
	users.POST("/cart/items", h.addCartItem)
	users.PATCH("/cart/items/:itemId", h.updateCartItem)
	users.DELETE("/cart/item/:itemId", h.removeCartItem)
	users.DELETE("/cart", h.clearCart)
	users.POST("/cart/checkout", h.checkout)
	users.GET("/cart/history", h.cartHistory)
	users.GET("/cart/summary", h.cartSummary)

	admin := api.Group("/users", h.authRequired, h.adminOnly)
	admin.GET("", h.listUsers)
	admin.GET("/:id", h.getUser)
	admin.DELETE("/:id", h.deleteUser)
	admin.PATCH("/:id/status", h.toggleUserStatus)
	admin.PATCH("/:id/role", h.changeUserRole)

	return router, nil
}

type handlers struct {
	logger    *log.Logger
	users     userService
	carts     cartService
	wishlists wishlistService
	products  productReader
	catalog   upstreamCatalog
	sessions  sessionStore
}
