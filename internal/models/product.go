package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Reserved is stock held by unshipped orders.
type Product struct {
	ID       uint64          `json:"id"`
	VendorID uint64          `json:"vendor_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Reserved int             `json:"reserved"`
	IsActive bool            `json:"is_active"`
}

// Available returns stock not held by any order
func (p *Product) Available() int {
	return p.Stock - p.Reserved
}

// CartItem is an item in the buyer's cart
type CartItem struct {
	ID        uint64          `json:"id"`
	UserID    uint64          `json:"user_id"`
	ProductID uint64          `json:"product_id"`
	VendorID  uint64          `json:"vendor_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}
