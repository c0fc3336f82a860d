package service

import (
	"context"

	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"go.uber.org/zap"
)

// TrackingService records delivery progress reported over the tracking channel
type TrackingService struct {
	orders    *OrderService
	locations LocationRepository
}

// NewTrackingService creates new TrackingService instance
func NewTrackingService(orders *OrderService, locations LocationRepository) *TrackingService {
	return &TrackingService{
		orders:    orders,
		locations: locations,
	}
}

// Subscribe checks that actor may follow order
func (ts *TrackingService) Subscribe(ctx context.Context, actor *models.TokenPayload, orderID uint64) error {
	_, err := ts.orders.GetOrder(ctx, actor, orderID)
	return err
}

// RecordLocation stores position reported by the delivery partner assigned to order
func (ts *TrackingService) RecordLocation(ctx context.Context, actor *models.TokenPayload, orderID uint64, loc models.LocationUpdate) (*models.LocationUpdate, error) {
	if actor.Role != models.RoleDelivery {
		return nil, models.ErrForbidden
	}

	order, err := ts.orders.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return nil, models.NewPreconditionError("Order is no longer in delivery")
	}

	loc.OrderID = orderID
	loc.PartnerID = actor.UserID
	if err := ts.locations.CreateLocation(ctx, &loc); err != nil {
		return nil, err
	}

	logger.Log.Debug("location recorded",
		zap.Uint64("order_id", orderID),
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude))

	return &loc, nil
}

// UpdateStatus moves order status on behalf of the delivery partner
func (ts *TrackingService) UpdateStatus(ctx context.Context, actor *models.TokenPayload, orderID uint64, status string) (*models.Order, error) {
	if actor.Role != models.RoleDelivery {
		return nil, models.ErrForbidden
	}
	return ts.orders.UpdateStatus(ctx, actor, orderID, status)
}

// CurrentStatus returns order status with the latest known position
func (ts *TrackingService) CurrentStatus(ctx context.Context, actor *models.TokenPayload, orderID uint64) (*models.TrackingStatus, error) {
	order, err := ts.orders.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	status := &models.TrackingStatus{
		OrderID:           order.ID,
		Status:            order.Status,
		DeliveryPartnerID: order.DeliveryPartnerID,
	}

	locations, err := ts.locations.ListLocations(ctx, orderID, 1)
	if err != nil {
		return nil, err
	}
	if len(locations) > 0 {
		status.LastLocation = &locations[0]
	}

	return status, nil
}
