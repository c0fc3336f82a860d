// Package tracking is the real-time delivery channel of an order. Clients
// subscribe to one order over a websocket and receive location and status
// updates reported by the assigned delivery partner.
package tracking

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rookgm/marketplace/internal/models"
)

// message types
const (
	TypeLocationUpdate = "location_update"
	TypeStatusUpdate   = "status_update"
	TypeGetStatus      = "get_status"
	TypeCurrentStatus  = "current_status"
	TypePing           = "ping"
	TypePong           = "pong"
	TypeError          = "error"
)

var validate = validator.New()

// Message is sent to clients
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// inbound is a client message before its data is decoded
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// LocationMessage is a position report of the delivery partner
type LocationMessage struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Accuracy  float64  `json:"accuracy" validate:"gte=0"`
	Speed     *float64 `json:"speed" validate:"omitempty,gte=0"`
	Heading   *float64 `json:"heading" validate:"omitempty,gte=0,lt=360"`
}

// StatusMessage is an order status change reported by the delivery partner
type StatusMessage struct {
	Status  string `json:"status" validate:"required,oneof=Processing Shipped Delivered Cancelled Failed"`
	Message string `json:"message" validate:"max=500"`
}

// StatusUpdate is broadcast after an order status change
type StatusUpdate struct {
	OrderID   uint64 `json:"order_id"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	UpdatedBy uint64 `json:"updated_by"`
}

// ErrorData is sent to the client whose message failed
type ErrorData struct {
	Message string `json:"message"`
}

// decode unmarshals and validates message data into v
func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", models.ErrMalformedPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
	}
	return nil
}

func (lm *LocationMessage) toModel() models.LocationUpdate {
	return models.LocationUpdate{
		Latitude:  *lm.Latitude,
		Longitude: *lm.Longitude,
		Accuracy:  lm.Accuracy,
		Speed:     lm.Speed,
		Heading:   lm.Heading,
	}
}
