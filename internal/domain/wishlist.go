package domain

import "time"

// WishlistEntry is a saved product reference. Entries are deduplicated per
// user by internal or external product id.
type WishlistEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	ProductID  *string   `json:"productId,omitempty"`
	ExternalID *int64    `json:"externalId,omitempty"`
	Title      string    `json:"title"`
	Price      float64   `json:"price"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MatchesRef reports whether the raw reference equals either identifier.
func (e WishlistEntry) MatchesRef(ref string) bool {
	return matchesProductRef(ref, e.ProductID, e.ExternalID)
}
