package domain

import "time"

type CartStatus string

const (
	CartActive    CartStatus = "active"
	CartCompleted CartStatus = "completed"
	CartAbandoned CartStatus = "abandoned"
)

// Cart is the per-user shopping cart. At most one cart per user is active;
// a completed cart is an immutable order record.
type Cart struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Status      CartStatus `json:"status"`
	TotalItems  int        `json:"totalItems"`
	TotalPrice  float64    `json:"totalPrice"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Items       []CartItem `json:"items"`
}

// CartItem is one product line inside a cart. ProductID points at the local
// catalog row, ExternalID at the upstream demo catalog; at least one is set.
type CartItem struct {
	ID         string    `json:"id"`
	CartID     string    `json:"-"`
	ProductID  *string   `json:"productId,omitempty"`
	ExternalID *int64    `json:"externalId,omitempty"`
	Title      string    `json:"title"`
	Price      float64   `json:"price"`
	Image      string    `json:"image,omitempty"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Matches reports whether the item is identified by the given raw reference,
// matching either the line id, the internal product id, or the external id.
func (i CartItem) Matches(ref string) bool {
	if i.ID == ref {
		return true
	}
	return matchesProductRef(ref, i.ProductID, i.ExternalID)
}

// EmptyCart returns the synthetic zero-value cart used when a user has no
// persisted active cart yet.
func EmptyCart(userID string) *Cart {
	return &Cart{
		UserID: userID,
		Status: CartActive,
		Items:  []CartItem{},
	}
}
