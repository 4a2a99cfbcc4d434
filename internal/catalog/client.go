// Package catalog fetches products from the external read-only demo API.
// Calls are bounded by the client timeout and retried at most once; failures
// surface to the caller instead of being retried silently.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/domain"
)

// ErrUnavailable indicates the upstream catalog could not be reached or
// answered with a server error.
var ErrUnavailable = errors.New("catalog unavailable")

// Product is the upstream wire shape.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Products returns the full upstream product list.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.getJSON(ctx, c.baseURL+"/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product returns one upstream product by its numeric id.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := c.getJSON(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, id), &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		// The demo API answers 200 with an empty body for unknown ids.
		return nil, domain.ErrNotFound
	}
	return &out, nil
}

// getJSON performs the request with a single capped retry. Listings are
// read-only and idempotent, so one retry is safe; more would just mask an
// outage.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := c.doJSON(ctx, url, out)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

func (c *Client) doJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: upstream status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decode response: %w", err)
	}
	return nil
}
