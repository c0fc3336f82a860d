package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/repository/postgres"
)

const (
	selectProductQuery = `
						SELECT id, vendor_id, name, price, stock, reserved, is_active FROM products
						WHERE id = $1
`
	// stock is held for an order until it ships
	reserveStockQuery = `
						UPDATE products
						SET reserved = reserved + $2
						WHERE id = $1 AND stock - reserved >= $2
`
	releaseStockQuery = `
						UPDATE products
						SET reserved = reserved - $2
						WHERE id = $1 AND reserved >= $2
`
	commitStockQuery = `
						UPDATE products
						SET stock = stock - $2, reserved = reserved - $2
						WHERE id = $1 AND stock >= $2 AND reserved >= $2
`
)

// ProductRepository implements ProductRepository interface
type ProductRepository struct {
	db *postgres.DB
}

// NewProductRepository creates new ProductRepository instance
func NewProductRepository(db *postgres.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetProduct returns product by id
func (pr *ProductRepository) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	var p models.Product
	err := pr.db.QueryRow(ctx, selectProductQuery, id).Scan(&p.ID, &p.VendorID, &p.Name, &p.Price, &p.Stock, &p.Reserved, &p.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return &p, nil
}

// stockUpdate runs guarded stock update. The guard failing yields models.ErrInsufficientStock.
func (pr *ProductRepository) stockUpdate(ctx context.Context, query string, productID uint64, qty int) error {
	cmd, err := pr.db.Exec(ctx, query, productID, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrInsufficientStock
	}
	return nil
}

// ReserveStock holds qty units of available stock
func (pr *ProductRepository) ReserveStock(ctx context.Context, productID uint64, qty int) error {
	return pr.stockUpdate(ctx, reserveStockQuery, productID, qty)
}

// ReleaseStock returns qty held units to available stock
func (pr *ProductRepository) ReleaseStock(ctx context.Context, productID uint64, qty int) error {
	return pr.stockUpdate(ctx, releaseStockQuery, productID, qty)
}

// CommitStock deducts qty held units from stock
func (pr *ProductRepository) CommitStock(ctx context.Context, productID uint64, qty int) error {
	return pr.stockUpdate(ctx, commitStockQuery, productID, qty)
}
