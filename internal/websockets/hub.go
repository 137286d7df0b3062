// Package websockets feeds live order events to connected staff
// dashboards.
package websockets

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

// Hub fans broadcast messages out to every connected dashboard client.
type Hub struct {
	clients map[*Client]bool

	register chan *Client

	unregister chan *Client

	broadcast chan []byte

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// orderEvent is the payload pushed to dashboards when an order commits.
type orderEvent struct {
	OrderNumber string    `json:"order_number"`
	ClientID    string    `json:"client_id"`
	Total       int64     `json:"total"`
	Lines       int       `json:"lines"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderCreated implements the order service's notifier hook. Marshalling
// problems are logged and dropped; the feed never fails an order.
func (h *Hub) OrderCreated(order *models.Order) {
	payload, err := json.Marshal(Message{
		Type: TypeOrderNew,
		Data: mustRaw(orderEvent{
			OrderNumber: order.OrderNumber,
			ClientID:    order.ClientID.String(),
			Total:       order.Total,
			Lines:       len(order.Lines),
			CreatedAt:   order.CreatedAt,
		}),
	})
	if err != nil {
		h.log.Error("failed to marshal order event", zap.Error(err))
		return
	}
	h.broadcast <- payload
}

func mustRaw(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}
