package catalog

import "time"

// Product is a catalog entry as served by the backend.
type Product struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	PriceInCents int        `json:"price_in_cents"`
	Currency     string     `json:"currency"`
	Stock        int        `json:"stock"`
	ImageURL     string     `json:"image_url,omitempty"`
	Description  string     `json:"description,omitempty"`
	CategoryID   string     `json:"category_id,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Category groups products.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
