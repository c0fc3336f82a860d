package models

import "time"

// LocationUpdate is a delivery partner position for an order
type LocationUpdate struct {
	ID        uint64    `json:"id"`
	OrderID   uint64    `json:"order_id"`
	PartnerID uint64    `json:"partner_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Speed     *float64  `json:"speed,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// TrackingStatus is the delivery state of an order
type TrackingStatus struct {
	OrderID           uint64          `json:"order_id"`
	Status            string          `json:"status"`
	DeliveryPartnerID *uint64         `json:"delivery_partner_id,omitempty"`
	LastLocation      *LocationUpdate `json:"last_location,omitempty"`
}
