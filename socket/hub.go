// Package socket pushes card change events to a user's other open sessions
// so their saved-designs list stays current. Cards are saved over REST; the
// socket is notify-only and never mutates stores.
package socket

import (
	"encoding/json"

	"cardstudio/pkg/logger"
)

const (
	CardCreatedType = "CARD_CREATED" // A design was saved
	CardUpdatedType = "CARD_UPDATED" // A design was modified
	CardDeletedType = "CARD_DELETED" // A design was removed
)

// Message is a card change event addressed to every session of one account.
type Message struct {
	Type      string          `json:"type"`
	AccountID string          `json:"-"`
	Payload   json.RawMessage `json:"payload"`
}

// Hub keeps one room per account and fans events out to its clients. All
// room state is owned by the Run goroutine; other goroutines only touch the
// channels.
type Hub struct {
	Rooms      map[string]map[*Client]bool
	Broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Rooms:      make(map[string]map[*Client]bool),
		Broadcast:  make(chan Message),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			if h.Rooms[client.AccountID] == nil {
				h.Rooms[client.AccountID] = make(map[*Client]bool)
			}
			h.Rooms[client.AccountID][client] = true

		case client := <-h.Unregister:
			if _, ok := h.Rooms[client.AccountID][client]; ok {
				delete(h.Rooms[client.AccountID], client)
				close(client.Send)
				if len(h.Rooms[client.AccountID]) == 0 {
					delete(h.Rooms, client.AccountID)
				}
			}

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}
			for client := range h.Rooms[msg.AccountID] {
				select {
				case client.Send <- payload:
				default:
					// The send buffer is full, the client is lagging. Drop the
					// event rather than block the hub; the pumps will reap a
					// dead connection.
					logger.Sugar.Warnf("Client %s's send buffer is full, dropping event", client.AccountID)
				}
			}
		}
	}
}

// Notify broadcasts a card event to every session of the owning account.
// Safe to call from any goroutine.
func (h *Hub) Notify(eventType, accountID string, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s payload: %v", eventType, err)
		return
	}
	h.Broadcast <- Message{Type: eventType, AccountID: accountID, Payload: b}
}
