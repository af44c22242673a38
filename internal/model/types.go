package model

import "time"

// Product states.
const (
	StateActive   = "ACTIVE"
	StateInactive = "INACTIVE"
)

// Product represents a catalog product.
type Product struct {
	ID         int64
	Name       string
	Category   string
	PriceCents int64
	State      string
	CreatedAt  time.Time
}

// NewProduct represents data for creating a product.
type NewProduct struct {
	Name       string
	Category   string
	PriceCents int64
	State      string
}
