package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/tabletap/api/internal/notify"
)

// RoomStaff receives every order change.
const RoomStaff = "staff"

// OrderRoom is the room for changes to a single order.
func OrderRoom(orderID uuid.UUID) string {
	return "order:" + orderID.String()
}

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// roomEvent is an internal struct for routing events to specific rooms
type roomEvent struct {
	Room  string
	Event Event
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients by room
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *roomEvent

	// Closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled, closing
// every client's send channel.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for room, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.room] == nil {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				log.Printf("ERROR: marshal %s event: %v", event.Event.Type, err)
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.Room] {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	// Clean up empty rooms
	if len(clients) == 0 {
		delete(h.rooms, client.room)
	}
}

// Broadcast sends an event to all clients in room. It is a no-op once the hub
// has stopped.
func (h *Hub) Broadcast(room string, event Event) {
	select {
	case h.broadcast <- &roomEvent{Room: room, Event: event}:
	case <-h.done:
	}
}

// HandleChange forwards a committed order change to the staff room and to the
// order's own room. It is meant to be subscribed to the change notifier.
func (h *Hub) HandleChange(c notify.Change) {
	payload, err := json.Marshal(c)
	if err != nil {
		log.Printf("ERROR: marshal change for order %s: %v", c.OrderID, err)
		return
	}

	event := Event{Type: c.Table + "." + c.Kind, Payload: payload}
	h.Broadcast(RoomStaff, event)
	h.Broadcast(OrderRoom(c.OrderID), event)
}

// Clients returns the number of clients in room.
func (h *Hub) Clients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
