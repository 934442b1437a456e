package oairealtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// Client represents a WebSocket connection to the OpenAI Realtime API.
// It manages the connection, feeds inbound messages to its Relay, and provides
// methods for sending client events to the API. The client is safe for
// concurrent use across multiple goroutines.
//
// The embedded Relay exposes the OnX handler registration methods; register
// handlers before triggering the events you care about.
type Client struct {
	*Relay // Inbound event dispatch; handlers run on the reader goroutine

	cfg Config // Configuration used to create this client

	// Connection state
	conn       *websocket.Conn    // Underlying WebSocket connection
	writeMu    sync.Mutex         // Protects writes to the WebSocket
	readCancel context.CancelFunc // Cancels the read loop when closing
	closedCh   chan struct{}      // Signals when the client is closed
	closeOnce  sync.Once          // Ensures closedCh is only closed once
}

// Dial establishes a WebSocket connection to the OpenAI Realtime API.
// It validates the configuration, constructs the WebSocket URL, performs
// authentication, and starts the background goroutines for handling messages
// and keepalives.
//
// Connection failures are returned as *ConnectionError and are never retried;
// the caller decides whether to start over. Call Close() when finished.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	// Construct WebSocket URL from the HTTP base URL
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, NewConfigError("BaseURL", cfg.BaseURL, "invalid URL format")
	}

	// Set WebSocket scheme based on HTTP scheme
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws" // For HTTP (mainly for testing)
	}
	u.Path = "/v1/realtime"
	q := u.Query()
	q.Set("model", cfg.Model)
	u.RawQuery = q.Encode()

	// Prepare authentication and custom headers
	h := http.Header{}
	if cfg.HandshakeHeaders != nil {
		for k, vals := range cfg.HandshakeHeaders {
			for _, v := range vals {
				h.Add(k, v)
			}
		}
	}
	cfg.Credential.apply(h)

	// Apply dial timeout if specified
	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	// Establish WebSocket connection
	ws, _, err := websocket.Dial(dialCtx, u.String(), &websocket.DialOptions{HTTPHeader: h})
	if err != nil {
		return nil, NewConnectionError(u.String(), "dial", err)
	}

	// Create client and start background operations
	c := &Client{cfg: cfg, conn: ws, closedCh: make(chan struct{})}
	c.Relay = NewRelay(c.log, c.logError)
	c.log("ws_connected", map[string]any{"url": u.String()})

	// Start read loop in separate goroutine
	rcCtx, cancel := context.WithCancel(context.Background())
	c.readCancel = cancel
	go c.readLoop(rcCtx, ws)

	// Start ping loop to maintain connection
	go c.pingLoop()
	return c, nil
}

// Close gracefully shuts down the client and cleans up all resources.
// This method is safe to call multiple times and will not block.
// After calling Close(), the client should not be used for further operations.
func (c *Client) Close() error {
	// Cancel the read loop to stop processing incoming messages
	if c.readCancel != nil {
		c.readCancel()
	}

	// Close the WebSocket connection safely
	c.writeMu.Lock()
	if c.conn != nil {
		_ = c.conn.Close(websocket.StatusNormalClosure, "closing")
		c.conn = nil
	}
	c.writeMu.Unlock()

	// Signal that the client is closed
	c.closeOnce.Do(func() {
		close(c.closedCh)
	})
	return nil
}

// Closed returns a channel that is closed when the client shuts down, either
// via Close or because the server ended the connection.
func (c *Client) Closed() <-chan struct{} { return c.closedCh }

// readLoop continuously reads messages from the WebSocket connection and
// feeds them to the Relay. It runs in a separate goroutine and terminates
// when the context is canceled or the connection fails. The conn is passed in
// rather than read from the client, since Close nils c.conn under writeMu and
// the loop must not race that.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		// Clean up connection state when read loop exits
		c.writeMu.Lock()
		if c.conn != nil {
			_ = c.conn.Close(websocket.StatusNormalClosure, "reader_exit")
			c.conn = nil
		}
		c.writeMu.Unlock()
		c.closeOnce.Do(func() {
			close(c.closedCh)
		})
	}()

	for {
		// Read next message from WebSocket
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		} // Connection closed or error occurred

		// Only process text messages (JSON events)
		if typ != websocket.MessageText {
			continue
		}

		c.Relay.Dispatch(data)
	}
}

func (c *Client) pingLoop() {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-c.closedCh:
			return
		case <-t.C:
			c.writeMu.Lock()
			if c.conn != nil {
				_ = c.conn.Ping(context.Background())
			}
			c.writeMu.Unlock()
		}
	}
}

// send serializes the payload as JSON and writes it to the WebSocket under a
// 15 second deadline. eventType is used only to annotate errors.
func (c *Client) send(ctx context.Context, eventType string, payload any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return ErrClosed
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return NewSendError(eventType, "", fmt.Errorf("marshal payload: %w", err))
	}

	// Apply send timeout
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err = c.conn.Write(ctx, websocket.MessageText, b)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return NewSendError(eventType, "", ErrSendTimeout)
		}
		return NewSendError(eventType, "", err)
	}

	return nil
}

// nextEventID stamps the payload with a fresh client event ID, sends it, and
// returns the ID for correlating server acknowledgements.
func (c *Client) nextEventID(ctx context.Context, eventType string, payload map[string]any) (string, error) {
	id := newEventID()
	payload["event_id"] = id
	return id, c.send(ctx, eventType, payload)
}

func (c *Client) log(event string, fields map[string]any) {
	if c.cfg.StructuredLogger != nil {
		c.cfg.StructuredLogger.Info(event, fields)
	} else if c.cfg.Logger != nil {
		c.cfg.Logger(event, fields)
	}
}

func (c *Client) logError(event string, fields map[string]any) {
	if c.cfg.StructuredLogger != nil {
		c.cfg.StructuredLogger.Error(event, fields)
	} else if c.cfg.Logger != nil {
		c.cfg.Logger("ERROR: "+event, fields)
	}
}
