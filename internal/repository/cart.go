package repository

import (
	"context"

	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/repository/postgres"
)

const (
	selectActiveCartItemsQuery = `
						SELECT c.id, c.user_id, c.product_id, p.vendor_id, c.quantity, p.price, c.is_active, c.created_at
						FROM cart_items c
						JOIN products p ON p.id = c.product_id
						WHERE c.user_id = $1 AND c.is_active AND p.is_active
						ORDER BY p.vendor_id, c.id
`
	deactivateCartItemsQuery = `
						UPDATE cart_items
						SET is_active = FALSE
						WHERE user_id = $1 AND is_active
`
)

// CartRepository implements CartRepository interface
type CartRepository struct {
	db *postgres.DB
}

// NewCartRepository creates new CartRepository instance
func NewCartRepository(db *postgres.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ListActiveCartItems returns active cart items of user with current product price and vendor
func (cr *CartRepository) ListActiveCartItems(ctx context.Context, userID uint64) ([]models.CartItem, error) {
	rows, err := cr.db.Query(ctx, selectActiveCartItemsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		item := models.CartItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.VendorID, &item.Quantity,
			&item.Price, &item.IsActive, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// DeactivateCartItems soft-clears active cart items of user and returns how many were cleared
func (cr *CartRepository) DeactivateCartItems(ctx context.Context, userID uint64) (int64, error) {
	cmd, err := cr.db.Exec(ctx, deactivateCartItemsQuery, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
