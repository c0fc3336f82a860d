package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/repository/postgres"
)

const orderColumns = `
	id, user_id, vendor_id, total_price, shipping_address, status, payment_link_id,
	gateway_order_id, payment_id, commission_amount, vendor_settlement_amount,
	settlement_status, transfer_id, settlement_id, delivery_partner_id, is_active,
	created_at, updated_at, settled_at`

const orderColumnsO = `
	o.id, o.user_id, o.vendor_id, o.total_price, o.shipping_address, o.status, o.payment_link_id,
	o.gateway_order_id, o.payment_id, o.commission_amount, o.vendor_settlement_amount,
	o.settlement_status, o.transfer_id, o.settlement_id, o.delivery_partner_id, o.is_active,
	o.created_at, o.updated_at, o.settled_at`

const (
	insertOrderQuery = `
						INSERT INTO orders (user_id, vendor_id, total_price, shipping_address, status, settlement_status)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING` + orderColumns

	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
						VALUES ($1, $2, $3, $4)
						RETURNING id
`
	selectOrderQuery = `
						SELECT` + orderColumns + ` FROM orders
						WHERE id = $1
`
	selectOrderForUpdateQuery = selectOrderQuery + ` FOR UPDATE`

	selectOrderItemsQuery = `
						SELECT id, order_id, product_id, quantity, price_at_purchase FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	selectOrdersByUserIDQuery = `
						SELECT` + orderColumns + ` FROM orders
						WHERE user_id = $1 AND is_active
						ORDER BY created_at DESC
`
	selectOrderByGatewayRefQuery = `
						SELECT` + orderColumns + ` FROM orders
						WHERE gateway_order_id = $1 OR payment_link_id = $1
						ORDER BY id
						LIMIT 1
`
	selectOrderByPaymentIDQuery = `
						SELECT` + orderColumns + ` FROM orders
						WHERE payment_id = $1
						ORDER BY id
						LIMIT 1
`
	selectSettleableOrdersQuery = `
						SELECT` + orderColumnsO + ` FROM orders o
						JOIN vendor_accounts v ON v.id = o.vendor_id
						WHERE o.status = 'Delivered'
						  AND o.settlement_status = 'pending'
						  AND o.is_active
						  AND v.kyc_verified
						  AND v.account_status = 'active'
						ORDER BY o.id
`
	updateOrderSettlementQuery = `
						UPDATE orders
						SET commission_amount = $2, vendor_settlement_amount = $3, settlement_status = $4,
						    transfer_id = $5, settlement_id = $6, settled_at = $7, updated_at = now()
						WHERE id = $1
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $3, updated_at = now()
						WHERE id = $1 AND status = $2
`
	markPaymentCapturedQuery = `
						UPDATE orders
						SET status = 'Processing', payment_id = $2,
						    gateway_order_id = COALESCE(NULLIF($3::text, ''), gateway_order_id),
						    updated_at = now()
						WHERE id = $1 AND status IN ('Pending', 'Failed')
`
	markPaymentFailedQuery = `
						UPDATE orders
						SET status = 'Failed', updated_at = now()
						WHERE id = $1 AND status = 'Pending'
`
	updatePaymentLinkQuery = `
						UPDATE orders
						SET payment_link_id = $2, updated_at = now()
						WHERE id = $1
`
	updateDeliveryPartnerQuery = `
						UPDATE orders
						SET delivery_partner_id = $2, updated_at = now()
						WHERE id = $1
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.VendorID, &o.TotalPrice, &o.ShippingAddress, &o.Status,
		&o.PaymentLinkID, &o.GatewayOrderID, &o.PaymentID, &o.CommissionAmount, &o.VendorSettlementAmount,
		&o.SettlementStatus, &o.TransferID, &o.SettlementID, &o.DeliveryPartnerID, &o.IsActive,
		&o.CreatedAt, &o.UpdatedAt, &o.SettledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (or *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// CreateOrder inserts order with its items
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	var created *models.Order
	err := or.db.WithinTx(ctx, func(ctx context.Context) error {
		o, err := scanOrder(or.db.QueryRow(ctx, insertOrderQuery, order.UserID, order.VendorID, order.TotalPrice,
			order.ShippingAddress, order.Status, order.SettlementStatus))
		if err != nil {
			return err
		}

		for _, item := range order.Items {
			item.OrderID = o.ID
			if err := or.db.QueryRow(ctx, insertOrderItemQuery, item.OrderID, item.ProductID, item.Quantity, item.PriceAtPurchase).Scan(&item.ID); err != nil {
				return err
			}
			o.Items = append(o.Items, item)
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetOrder returns order by id
func (or *OrderRepository) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	return scanOrder(or.db.QueryRow(ctx, selectOrderQuery, id))
}

// GetOrderForUpdate returns order by id and locks its row until the transaction ends
func (or *OrderRepository) GetOrderForUpdate(ctx context.Context, id uint64) (*models.Order, error) {
	return scanOrder(or.db.QueryRow(ctx, selectOrderForUpdateQuery, id))
}

// GetOrderItems returns order items
func (or *OrderRepository) GetOrderItems(ctx context.Context, orderID uint64) ([]models.OrderItem, error) {
	rows, err := or.db.Query(ctx, selectOrderItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		item := models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetOrdersByUserID gets user orders
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error) {
	return or.queryOrders(ctx, selectOrdersByUserIDQuery, userID)
}

// FindOrderByGatewayReference returns order by gateway order id or payment link id
func (or *OrderRepository) FindOrderByGatewayReference(ctx context.Context, ref string) (*models.Order, error) {
	return scanOrder(or.db.QueryRow(ctx, selectOrderByGatewayRefQuery, ref))
}

// FindOrderByPaymentID returns order by captured payment id
func (or *OrderRepository) FindOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	return scanOrder(or.db.QueryRow(ctx, selectOrderByPaymentIDQuery, paymentID))
}

// ListSettleableOrders returns delivered active orders pending settlement whose vendor is verified and active
func (or *OrderRepository) ListSettleableOrders(ctx context.Context) ([]models.Order, error) {
	return or.queryOrders(ctx, selectSettleableOrdersQuery)
}

// UpdateOrderSettlement stores settlement fields of order
func (or *OrderRepository) UpdateOrderSettlement(ctx context.Context, order *models.Order) error {
	cmd, err := or.db.Exec(ctx, updateOrderSettlementQuery, order.ID, order.CommissionAmount, order.VendorSettlementAmount,
		order.SettlementStatus, order.TransferID, order.SettlementID, order.SettledAt)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// UpdateOrderStatus moves order from one status to another.
// It returns false if the order is no longer in the expected status.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, id uint64, from, to string) (bool, error) {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, id, from, to)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// MarkPaymentCaptured moves pending or failed order to processing and stores payment references.
// It returns false when the order was already captured.
func (or *OrderRepository) MarkPaymentCaptured(ctx context.Context, id uint64, paymentID, gatewayOrderID string) (bool, error) {
	cmd, err := or.db.Exec(ctx, markPaymentCapturedQuery, id, paymentID, gatewayOrderID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// MarkPaymentFailed moves pending order to failed
func (or *OrderRepository) MarkPaymentFailed(ctx context.Context, id uint64) (bool, error) {
	cmd, err := or.db.Exec(ctx, markPaymentFailedQuery, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// SetPaymentLink stores gateway payment link id of order
func (or *OrderRepository) SetPaymentLink(ctx context.Context, id uint64, linkID string) error {
	cmd, err := or.db.Exec(ctx, updatePaymentLinkQuery, id, linkID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}
	return nil
}

// SetDeliveryPartner assigns delivery partner to order
func (or *OrderRepository) SetDeliveryPartner(ctx context.Context, id, partnerID uint64) error {
	cmd, err := or.db.Exec(ctx, updateDeliveryPartnerQuery, id, partnerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}
	return nil
}
