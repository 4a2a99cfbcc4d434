package domain

import "time"

// Product is a catalog row mirrored from the upstream demo API.
type Product struct {
	ID          string    `json:"id"`
	ExternalID  int64     `json:"externalId"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
