package tracking

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/models"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var clientIDCounter atomic.Uint64

// Handler applies client messages to orders
type Handler interface {
	RecordLocation(ctx context.Context, actor *models.TokenPayload, orderID uint64, loc models.LocationUpdate) (*models.LocationUpdate, error)
	UpdateStatus(ctx context.Context, actor *models.TokenPayload, orderID uint64, status string) (*models.Order, error)
	CurrentStatus(ctx context.Context, actor *models.TokenPayload, orderID uint64) (*models.TrackingStatus, error)
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id      uint64
	hub     *Hub
	conn    *websocket.Conn
	send    chan Message
	orderID uint64
	actor   *models.TokenPayload
	handler Handler
}

// NewClient creates a new Client following order on behalf of actor
func NewClient(hub *Hub, conn *websocket.Conn, handler Handler, actor *models.TokenPayload, orderID uint64) *Client {
	return &Client{
		id:      clientIDCounter.Add(1),
		hub:     hub,
		conn:    conn,
		send:    make(chan Message, 64),
		orderID: orderID,
		actor:   actor,
		handler: handler,
	}
}

// Start registers client and begins reading and writing
func (c *Client) Start(ctx context.Context) {
	if !c.hub.join(c) {
		_ = c.conn.Close()
		return
	}
	go c.writePump()
	go c.readPump(ctx)
}

// reply sends message to this client only
func (c *Client) reply(msg Message) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	if _, ok := c.hub.rooms[c.orderID][c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) replyError(err error) {
	msg := err.Error()
	var pe *models.PreconditionError
	switch {
	case errors.As(err, &pe):
		msg = pe.Reason
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrMalformedPayload):
	default:
		logger.Log.Error("tracking message", zap.Uint64("order_id", c.orderID), zap.Error(err))
		msg = "internal error"
	}
	c.reply(Message{Type: TypeError, Data: ErrorData{Message: msg}})
}

// handle dispatches one client message
func (c *Client) handle(ctx context.Context, raw []byte) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		c.replyError(models.ErrMalformedPayload)
		return
	}

	switch in.Type {
	case TypePing:
		c.reply(Message{Type: TypePong})

	case TypeGetStatus:
		status, err := c.handler.CurrentStatus(ctx, c.actor, c.orderID)
		if err != nil {
			c.replyError(err)
			return
		}
		c.reply(Message{Type: TypeCurrentStatus, Data: status})

	case TypeLocationUpdate:
		var lm LocationMessage
		if err := decode(in.Data, &lm); err != nil {
			c.replyError(err)
			return
		}
		loc, err := c.handler.RecordLocation(ctx, c.actor, c.orderID, lm.toModel())
		if err != nil {
			c.replyError(err)
			return
		}
		c.hub.Broadcast(c.orderID, TypeLocationUpdate, loc)

	case TypeStatusUpdate:
		var sm StatusMessage
		if err := decode(in.Data, &sm); err != nil {
			c.replyError(err)
			return
		}
		order, err := c.handler.UpdateStatus(ctx, c.actor, c.orderID, sm.Status)
		if err != nil {
			c.replyError(err)
			return
		}
		c.hub.Broadcast(c.orderID, TypeStatusUpdate, StatusUpdate{
			OrderID:   order.ID,
			Status:    order.Status,
			Message:   sm.Message,
			UpdatedBy: c.actor.UserID,
		})

	default:
		c.replyError(errors.Join(models.ErrMalformedPayload, errors.New("unknown message type "+in.Type)))
	}
}

// readPump pumps messages from the websocket connection to the handler
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.Error("set read deadline", zap.Error(err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("unexpected websocket close", zap.Uint64("order_id", c.orderID), zap.Error(err))
			}
			return
		}
		c.handle(ctx, raw)
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// the hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			b, err := json.Marshal(msg)
			if err != nil {
				logger.Log.Error("encode tracking message", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
