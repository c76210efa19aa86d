package testutil

import (
	"sync"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client that collects text frames
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan string
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan string, 100),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != gorillaWS.TextMessage {
			continue
		}

		select {
		case c.messages <- string(data):
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// ExpectMessage waits for the next text frame
func (c *WSClient) ExpectMessage(timeout time.Duration) string {
	c.t.Helper()

	select {
	case msg, ok := <-c.messages:
		if !ok {
			c.t.Fatalf("websocket closed while waiting for a message")
		}
		return msg
	case <-time.After(timeout):
		c.t.Fatalf("timed out waiting for websocket message")
		return ""
	}
}

// ExpectClosed waits until the server closes the connection
func (c *WSClient) ExpectClosed(timeout time.Duration) {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case _, ok := <-c.messages:
			if !ok {
				return
			}
		case <-deadline:
			c.t.Fatalf("timed out waiting for websocket close")
		}
	}
}
