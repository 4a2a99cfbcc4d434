package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(t, Deps{})

	rec := doJSON(router, http.MethodGet, "/api/health", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyHandler_NoDB(t *testing.T) {
	router := newTestRouter(t, Deps{})

	rec := doJSON(router, http.MethodGet, "/api/ready", "", nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a pool, got %d", rec.Code)
	}
}

func TestBuildRouter_MissingDeps(t *testing.T) {
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}

func TestListProductsHandler(t *testing.T) {
	router := newTestRouter(t, Deps{
		Products: &stubProductReader{products: []domain.Product{{ExternalID: 1, Title: "Backpack"}}},
	})

	rec := doJSON(router, http.MethodGet, "/api/products", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"Backpack"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetProductHandler_Local(t *testing.T) {
	upstream := &stubUpstream{}
	router := newTestRouter(t, Deps{
		Products: &stubProductReader{product: &domain.Product{ExternalID: 7, Title: "Backpack"}},
		Catalog:  upstream,
	})

	rec := doJSON(router, http.MethodGet, "/api/products/7", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if upstream.calls != 0 {
		t.Fatalf("local hit must not reach upstream")
	}
}

func TestGetProductHandler_UpstreamFallback(t *testing.T) {
	upstream := &stubUpstream{product: &catalog.Product{ID: 7, Title: "Backpack", Price: 109.95}}
	router := newTestRouter(t, Deps{
		Products: &stubProductReader{err: domain.ErrNotFound},
		Catalog:  upstream,
	})

	rec := doJSON(router, http.MethodGet, "/api/products/7", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if upstream.calls != 1 {
		t.Fatalf("expected upstream fallback, calls=%d", upstream.calls)
	}
}

func TestGetProductHandler_UpstreamDown(t *testing.T) {
	router := newTestRouter(t, Deps{
		Products: &stubProductReader{err: domain.ErrNotFound},
		Catalog:  &stubUpstream{err: catalog.ErrUnavailable},
	})

	rec := doJSON(router, http.MethodGet, "/api/products/7", "", nil)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetProductHandler_NotFound(t *testing.T) {
	router := newTestRouter(t, Deps{
		Products: &stubProductReader{err: domain.ErrNotFound},
	})

	rec := doJSON(router, http.MethodGet, "/api/products/nope", "", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}
