package websocket

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source produces the next message broadcast to every client.
type Source func() ([]byte, error)

// Hub pushes one message from its Source to all registered clients on every
// tick. Clients whose send buffer is full are dropped.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	interval   time.Duration
	source     Source
	logs       *zap.SugaredLogger
	mu         sync.RWMutex
}

func NewHub(interval time.Duration, source Source, logs *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		interval:   interval,
		source:     source,
		logs:       logs,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()

		case <-ticker.C:
			h.broadcast()
		}
	}
}

func (h *Hub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}

	message, err := h.source()
	if err != nil {
		h.logs.Errorw("failed to build broadcast message", "error", err)
		return
	}

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			h.logs.Warnw("dropping slow websocket client", "remote", client.RemoteAddr())
			delete(h.clients, client)
			client.Close()
		}
	}
}

// Stop shuts the hub down and closes every client. It blocks until Run exits.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// Register adds a client. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; it is a no-op once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
