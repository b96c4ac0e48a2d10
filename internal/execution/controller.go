// Package execution holds the client-side state machine for running scripts
// on the remote backend: connection state, the single execution session and
// its output log.
//
// Controller never touches the network directly. Outbound frames go through
// a Sender and inbound traffic is fed in by the owner via HandleMessage,
// SetConnected and HandleDisconnect.
package execution

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marcus/workbench/internal/channel"
)

var (
	ErrNotConnected     = errors.New("backend is not connected")
	ErrAlreadyExecuting = errors.New("a script is already executing")
	ErrEmptyScript      = errors.New("no script content to execute")
)

const unnamedScript = "Unnamed Script"

// ConnState is the channel connection state.
type ConnState int

const (
	ConnDisconnected ConnState = iota
	ConnConnected
	ConnError
)

// String returns a display label for the state.
func (s ConnState) String() string {
	switch s {
	case ConnConnected:
		return "connected"
	case ConnError:
		return "error"
	default:
		return "disconnected"
	}
}

// Status is the execution session status.
type Status int

const (
	StatusIdle Status = iota
	StatusStarting
	StatusRunning
	StatusCompleted
	StatusErrored
)

// String returns a display label for the status.
func (s Status) String() string {
	switch s {
	case StatusStarting:
		return "starting"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusErrored:
		return "errored"
	default:
		return "idle"
	}
}

// Terminal reports whether the status ends a session.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusErrored
}

// OverlapPolicy decides what Execute does while a session is in flight.
type OverlapPolicy string

const (
	OverlapReject OverlapPolicy = "reject"
	OverlapQueue  OverlapPolicy = "queue"
	OverlapAllow  OverlapPolicy = "allow"
)

// ParseOverlapPolicy maps a config string to a policy. Unknown values
// select OverlapReject.
func ParseOverlapPolicy(s string) OverlapPolicy {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case OverlapQueue:
		return OverlapQueue
	case OverlapAllow:
		return OverlapAllow
	default:
		return OverlapReject
	}
}

// Sender delivers outbound frames. *channel.Client satisfies it.
type Sender interface {
	Send(channel.Outbound) error
}

// Snapshot is a point-in-time copy of controller state.
type Snapshot struct {
	Conn      ConnState
	Status    Status
	SessionID string
	Executing bool
	Queued    int
	Log       []LogLine
}

// Controller owns the execution session and connection state.
type Controller struct {
	mu sync.Mutex

	sender Sender
	policy OverlapPolicy
	now    func() time.Time
	logger *slog.Logger
	onSend func(outcome string)

	conn      ConnState
	status    Status
	sessionID string
	executing bool
	log       *OutputLog
	queue     []channel.Outbound
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the overlap policy.
func WithPolicy(p OverlapPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithClock overrides the time source for log stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithLogCapacity bounds the output log.
func WithLogCapacity(n int) Option {
	return func(c *Controller) { c.log = NewOutputLog(n) }
}

// WithSendObserver is called with "sent" or "failed" after each send.
func WithSendObserver(fn func(outcome string)) Option {
	return func(c *Controller) { c.onSend = fn }
}

// NewController creates an idle, disconnected controller.
func NewController(sender Sender, opts ...Option) *Controller {
	c := &Controller{
		sender: sender,
		policy: OverlapReject,
		now:    time.Now,
		logger: slog.Default(),
		log:    NewOutputLog(DefaultLogCapacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the configured overlap policy.
func (c *Controller) Policy() OverlapPolicy { return c.policy }

// SetConnected records a successful channel open.
func (c *Controller) SetConnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = ConnConnected
}

// HandleDisconnect records a channel close. err is nil for a clean close.
// An in-flight session is abandoned as errored.
func (c *Controller) HandleDisconnect(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.conn = ConnError
	} else {
		c.conn = ConnDisconnected
	}

	if c.status == StatusStarting || c.status == StatusRunning {
		c.status = StatusErrored
		c.log.Append(c.now(), "[ERROR] connection lost")
	}
	if len(c.queue) > 0 {
		c.logger.Debug("execution: dropping queued requests", "count", len(c.queue))
	}
	c.queue = nil
	c.executing = false
	c.sessionID = ""
}

// Execute sends a script for execution. It returns immediately; progress is
// observed through HandleMessage.
func (c *Controller) Execute(name, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != ConnConnected {
		return ErrNotConnected
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyScript
	}
	if strings.TrimSpace(name) == "" {
		name = unnamedScript
	}
	req := channel.NewExecute(name, content)

	if c.executing {
		switch c.policy {
		case OverlapQueue:
			c.queue = append(c.queue, req)
			c.log.Append(c.now(), fmt.Sprintf("%s Queued %q (%d waiting)", stamp(c.now()), name, len(c.queue)))
			return nil
		case OverlapAllow:
			c.log.Append(c.now(), fmt.Sprintf("%s Preparing to execute %q...", stamp(c.now()), name))
			return c.sendLocked(req)
		default:
			return ErrAlreadyExecuting
		}
	}

	return c.startLocked(req)
}

// startLocked begins a new session for req. A send error fails the session
// and is returned.
func (c *Controller) startLocked(req channel.Outbound) error {
	now := c.now()
	c.status = StatusStarting
	c.executing = true
	c.sessionID = ""
	c.log.Reset(now, fmt.Sprintf("%s Preparing to execute %q...", stamp(now), req.ScriptName))
	return c.sendLocked(req)
}

// sendLocked sends req, failing the session on error.
func (c *Controller) sendLocked(req channel.Outbound) error {
	err := c.sender.Send(req)
	if c.onSend != nil {
		if err != nil {
			c.onSend("failed")
		} else {
			c.onSend("sent")
		}
	}
	if err != nil {
		c.log.Append(c.now(), "Error: "+err.Error())
		c.status = StatusErrored
		c.executing = false
		c.sessionID = ""
		return err
	}
	return nil
}

// HandleMessage applies an inbound frame to the session.
func (c *Controller) HandleMessage(msg channel.Inbound) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	switch msg.Type {
	case channel.TypeExecutionStart:
		c.status = StatusRunning
		c.sessionID = msg.SessionID
		c.log.Append(now, fmt.Sprintf("%s %s", stamp(now), msg.Message))

	case channel.TypeExecutionComplete:
		c.status = StatusCompleted
		c.log.Append(now, fmt.Sprintf("%s %s", stamp(now), msg.Message))
		c.log.Append(now, "")
		c.finishLocked()

	case channel.TypeError:
		c.status = StatusErrored
		c.log.Append(now, "[ERROR] "+msg.Text())
		c.finishLocked()

	default:
		c.logger.Debug("execution: ignoring unknown message type", "type", msg.Type)
	}
}

// finishLocked clears the session after a terminal message and starts the
// next queued request, if any.
func (c *Controller) finishLocked() {
	c.executing = false
	c.sessionID = ""
	if len(c.queue) == 0 {
		return
	}
	next := c.queue[0]
	c.queue = c.queue[1:]

	now := c.now()
	c.status = StatusStarting
	c.executing = true
	c.log.Append(now, fmt.Sprintf("%s Preparing to execute %q...", stamp(now), next.ScriptName))
	if err := c.sendLocked(next); err != nil {
		c.logger.Warn("execution: queued send failed", "script", next.ScriptName, "error", err)
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Conn:      c.conn,
		Status:    c.status,
		SessionID: c.sessionID,
		Executing: c.executing,
		Queued:    len(c.queue),
		Log:       c.log.Lines(),
	}
}

// ClearLog empties the output log.
func (c *Controller) ClearLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = NewOutputLog(c.log.cap)
}

// Output returns the output log as text.
func (c *Controller) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.String()
}
