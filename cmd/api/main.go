package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	cartrepo "storefront/internal/repository/cart"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	wishlistrepo "storefront/internal/repository/wishlist"
	cartsvc "storefront/internal/service/cart"
	usersvc "storefront/internal/service/user"
	wishlistsvc "storefront/internal/service/wishlist"
	"storefront/internal/sessioncart"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	wishlistRepo := wishlistrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool)
	resetTokens := tokenrepo.NewPostgres(dbpool)

	userService := usersvc.New(userRepo, resetTokens, cfg.JWTSecret, cfg.JWTTTL)
	cartService := cartsvc.New(cartRepo, productRepo)
	wishlistService := wishlistsvc.New(wishlistRepo)
	catalogClient := catalog.New(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	sessions := sessioncart.New(cfg.SessionCartFile, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:     userService,
		CartSvc:     cartService,
		WishlistSvc: wishlistService,
		Products:    productRepo,
		Catalog:     catalogClient,
		Sessions:    sessions,
		CORSOrigin:  cfg.CORSOrigin,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
