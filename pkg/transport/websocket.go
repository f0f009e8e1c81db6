package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

// submitFrame is the wire envelope for one submission.
type submitFrame struct {
	Type string    `json:"type"`
	Data path.Tree `json:"data"`
}

// ackFrame is the server's reply to a submit frame.
type ackFrame struct {
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// WSConfig configures the WebSocket transport.
type WSConfig struct {
	Dialer *websocket.Dialer
	Header http.Header
}

// WSOption configures the WebSocket transport.
type WSOption func(*WSConfig)

// WithDialer sets the dialer (default: websocket.DefaultDialer).
func WithDialer(d *websocket.Dialer) WSOption {
	return func(c *WSConfig) { c.Dialer = d }
}

// WithDialHeader adds a header to the connection handshake.
func WithDialHeader(key, value string) WSOption {
	return func(c *WSConfig) {
		if c.Header == nil {
			c.Header = http.Header{}
		}
		c.Header.Add(key, value)
	}
}

// WSTransport submits snapshots as JSON frames over a single WebSocket
// connection. The connection is dialed lazily on the first submission
// and redialed after failures.
type WSTransport struct {
	url    string
	config WSConfig

	mu   sync.Mutex
	conn *websocket.Conn
}

// WebSocket creates a WebSocket transport for the given URL. Pass its
// Submit method as the binding's submit action and Close it when the
// binding is destroyed.
func WebSocket(url string, opts ...WSOption) *WSTransport {
	config := WSConfig{Dialer: websocket.DefaultDialer}
	for _, opt := range opts {
		opt(&config)
	}
	return &WSTransport{url: url, config: config}
}

// Submit writes the snapshot as a submit frame and waits for the
// server's acknowledgement. A negative acknowledgement surfaces as
// *RequestError so recovery functions can treat both transports alike.
func (t *WSTransport) Submit(ctx context.Context, data path.Tree, _ *form.SubmitContext) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	conn, err := t.connect(ctx)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
		conn.SetReadDeadline(deadline)
	}

	if err := conn.WriteJSON(submitFrame{Type: "submit", Data: data}); err != nil {
		t.drop()
		return fmt.Errorf("transport: write frame: %w", err)
	}

	var ack ackFrame
	if err := conn.ReadJSON(&ack); err != nil {
		t.drop()
		return fmt.Errorf("transport: read ack: %w", err)
	}
	if !ack.OK {
		return &RequestError{Status: ack.Status, Body: ack.Error}
	}
	return nil
}

// Close tears down the connection. Safe to call more than once.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// connect returns the live connection, dialing if needed. Caller holds
// the mutex.
func (t *WSTransport) connect(ctx context.Context) (*websocket.Conn, error) {
	if t.conn != nil {
		return t.conn, nil
	}
	conn, _, err := t.config.Dialer.DialContext(ctx, t.url, t.config.Header)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", t.url, err)
	}
	t.conn = conn
	return conn, nil
}

// drop discards a connection after an I/O failure so the next
// submission redials. Caller holds the mutex.
func (t *WSTransport) drop() {
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
}
