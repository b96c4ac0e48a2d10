// Package channel implements the duplex WebSocket connection to the script
// execution backend.
//
// A Client runs a single connection loop: dial, pump frames until the
// connection drops, wait ReconnectDelay, repeat. The delay is fixed and the
// loop never gives up while its context is alive.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultEndpoint is the fixed local address of the execution backend.
	DefaultEndpoint = "ws://localhost:3001"

	// ReconnectDelay is the wait between a dropped connection (or failed
	// dial) and the next attempt.
	ReconnectDelay = 3 * time.Second

	eventBuffer = 64
	sendBuffer  = 16
	writeWait   = 10 * time.Second
)

// ErrNotConnected is returned by Send when no connection is open.
var ErrNotConnected = errors.New("channel: not connected")

// EventKind identifies a connection lifecycle event.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventMessage
)

// String returns a display label for the kind.
func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Event is delivered on Client.Events.
type Event struct {
	Kind    EventKind
	Message Inbound // EventMessage only
	Err     error   // EventDisconnected: nil for a clean close
}

// Client is the reconnecting execution channel.
type Client struct {
	endpoint string
	dial     func(ctx context.Context, url string) (*websocket.Conn, error)
	sleep    func(ctx context.Context, d time.Duration) bool
	logger   *slog.Logger
	hooks    Hooks

	events chan Event

	mu   sync.Mutex
	out  chan Outbound // non-nil while connected
	runs int
}

// Hooks observe client activity. Used for metrics.
type Hooks struct {
	OnDial      func(attempt int)
	OnConnected func()
	OnClosed    func(err error)
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the backend address. Intended for tests.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithSleep overrides the reconnect wait. fn returns false if ctx ended
// before the wait elapsed.
func WithSleep(fn func(ctx context.Context, d time.Duration) bool) Option {
	return func(c *Client) { c.sleep = fn }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHooks installs lifecycle observers.
func WithHooks(h Hooks) Option {
	return func(c *Client) { c.hooks = h }
}

// New creates a client for DefaultEndpoint.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		sleep:    sleepCtx,
		logger:   slog.Default(),
		events:   make(chan Event, eventBuffer),
	}
	c.dial = func(ctx context.Context, url string) (*websocket.Conn, error) {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		return conn, err
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the backend address.
func (c *Client) Endpoint() string { return c.endpoint }

// Events returns the lifecycle and message stream. It is closed when Run
// returns.
func (c *Client) Events() <-chan Event { return c.events }

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out != nil
}

// Send queues a frame on the open connection.
func (c *Client) Send(msg Outbound) error {
	c.mu.Lock()
	out := c.out
	c.mu.Unlock()
	if out == nil {
		return ErrNotConnected
	}
	select {
	case out <- msg:
		return nil
	default:
		return fmt.Errorf("channel: send queue full")
	}
}

// Run drives the connection loop until ctx is cancelled. Only one Run may be
// active per client.
func (c *Client) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.runs > 0 {
		c.mu.Unlock()
		return errors.New("channel: already running")
	}
	c.runs++
	c.mu.Unlock()
	defer close(c.events)

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.hooks.OnDial != nil {
			c.hooks.OnDial(attempt)
		}

		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.hooks.OnClosed != nil {
			c.hooks.OnClosed(err)
		}
		c.emit(ctx, Event{Kind: EventDisconnected, Err: err})
		c.logger.Info("channel: disconnected, reconnecting", "error", err, "delay", ReconnectDelay)

		if !c.sleep(ctx, ReconnectDelay) {
			return ctx.Err()
		}
	}
}

// session dials once and pumps frames until the connection ends. A nil
// return means the peer closed normally.
func (c *Client) session(ctx context.Context) error {
	conn, err := c.dial(ctx, c.endpoint)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.endpoint, err)
	}

	out := make(chan Outbound, sendBuffer)
	c.mu.Lock()
	c.out = out
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.out = nil
		c.mu.Unlock()
	}()

	c.logger.Info("channel: connected", "endpoint", c.endpoint)
	if c.hooks.OnConnected != nil {
		c.hooks.OnConnected()
	}
	c.emit(ctx, Event{Kind: EventConnected})

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return c.readPump(ctx, conn)
	})
	g.Go(func() error {
		return c.writePump(gctx, conn, out, done)
	})

	err = g.Wait()
	_ = conn.Close()
	return err
}

func (c *Client) readPump(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("channel: dropping malformed frame", "error", err, "size", len(data))
			continue
		}
		c.emit(ctx, Event{Kind: EventMessage, Message: msg})
	}
}

func (c *Client) writePump(ctx context.Context, conn *websocket.Conn, out <-chan Outbound, done <-chan struct{}) error {
	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			// Unblocks the read pump.
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
			return nil
		case msg := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				_ = conn.Close()
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

func (c *Client) emit(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
