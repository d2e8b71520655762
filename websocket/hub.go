package websocket

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/anjiri1684/college_crp/events"
	"github.com/google/uuid"
)

const (
	writeWait     = 10 * time.Second
	clientBacklog = 16
	hubBacklog    = 64
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type Client struct {
	ID   uuid.UUID
	Conn Conn

	send chan events.Event
}

func NewClient(conn Conn) *Client {
	return &Client{ID: uuid.New(), Conn: conn, send: make(chan events.Event, clientBacklog)}
}

// Hub fans ledger events out to every connected feed client. Each client has
// its own writer goroutine; a client that falls clientBacklog events behind is
// disconnected.
type Hub struct {
	clients   map[uuid.UUID]*Client
	clientsMu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan events.Event
	done       chan struct{}
}

var _ events.Publisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan events.Event, hubBacklog),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Conn.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues e for broadcast without blocking. When the hub is backed up
// or stopped the event is dropped.
func (h *Hub) Publish(_ context.Context, e events.Event) error {
	select {
	case <-h.done:
		return nil
	default:
	}
	select {
	case h.broadcast <- e:
	default:
		log.Printf("⚠️ Ledger feed backlog full, dropping %s event", e.Kind)
	}
	return nil
}

func (h *Hub) Count() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			log.Printf("Ledger feed client registered: %s", client.ID)
			h.clientsMu.Lock()
			h.clients[client.ID] = client
			h.clientsMu.Unlock()
			go h.write(client)
		case client := <-h.unregister:
			log.Printf("Ledger feed client unregistered: %s", client.ID)
			h.clientsMu.Lock()
			h.drop(client)
			h.clientsMu.Unlock()
		case e := <-h.broadcast:
			h.send(e)
		}
	}
}

func (h *Hub) send(e events.Event) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for _, client := range h.clients {
		select {
		case client.send <- e:
		default:
			log.Printf("⚠️ Ledger feed client %s is not keeping up, disconnecting", client.ID)
			h.drop(client)
		}
	}
}

// drop removes client and stops its writer. Callers hold clientsMu.
func (h *Hub) drop(client *Client) {
	if current, ok := h.clients[client.ID]; ok && current == client {
		delete(h.clients, client.ID)
		close(client.send)
	}
}

// write drains the client's queue onto its connection and closes the
// connection once the queue is closed or a write fails.
func (h *Hub) write(client *Client) {
	defer client.Conn.Close()
	for e := range client.send {
		client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.Conn.WriteJSON(e); err != nil {
			log.Printf("Error sending %s to feed client %s: %v", e.Kind, client.ID, err)
			go h.Unregister(client)
			return
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for _, client := range h.clients {
		h.drop(client)
	}
}
