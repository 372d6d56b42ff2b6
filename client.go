package irc

import (
	"bufio"
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Local lifecycle events fired by the Client. They never appear on the
// wire; the client triggers them itself as the connection comes up and
// goes down.
const (
	// EventClientConnect fires once per successful Connect, with host
	// and port fields describing the dialed address.
	EventClientConnect = "CLIENT_CONNECT"

	// EventClientDisconnect fires exactly once per connection, whether
	// the close came from Disconnect, a remote hangup, or a transport
	// error.
	EventClientDisconnect = "CLIENT_DISCONNECT"
)

// A Client manages a connection to an IRC server.
//
// It serializes outgoing commands, feeds incoming lines through the
// handler pipeline, and dispatches the resulting events on its Bus.
// The zero value is usable after setting Addr or Dial; New fills in
// the common defaults.
type Client struct {

	// The address ("host:port") of the IRC server. Only TLS connections
	// are supported; use Dial for anything else.
	// Addr is only used when Dial is nil.
	Addr string

	// Dial is a function that accepts no parameters and returns an
	// io.ReadWriteCloser and error.
	//
	// The returned connection can be any io.ReadWriteCloser: irc, ircs,
	// ws, wss, a server mock, etc. The only requirement is that the
	// stream consists of CRLF-delimited IRC messages.
	//
	// When Dial is nil, the default behavior dials Addr with tls.Dial.
	Dial func() (io.ReadWriteCloser, error)

	// Logger receives debug and warning records from the read loop and
	// pipeline. If nil, slog.Default() is used.
	Logger *slog.Logger

	// LineHandlers is the inbound pipeline, run in order for every line
	// read from the connection. When empty, ParseDispatch alone is used.
	// Mutate only between connections or under your own coordination;
	// the read loop snapshots the slice per line.
	LineHandlers []LineHandler

	// Serializer encodes Send calls. When nil, a serializer preloaded
	// with the RFC 2812 command set is installed on first use.
	Serializer *Serializer

	mu      sync.Mutex
	bus     *Bus
	status  clientStatus
	current *connection

	// dialing closes when the most recent Connect attempt has settled,
	// meaning the dial failed or the connection is installed and the
	// connect event has fired. Disconnect waits on it so a close
	// requested mid-dial still tears down whatever the dial produces.
	dialing chan struct{}
}

// connection is the per-connect state. Its down channel closes after the
// CLIENT_DISCONNECT fire for this connection has completed, and its
// closeOnce guarantees the transport close and the disconnect event
// happen once no matter how many paths race to shut it down.
type connection struct {
	rwc       io.ReadWriteCloser
	closeOnce sync.Once
	down      chan struct{}
}

// New returns a Client for the given "host:port" address with the
// RFC 2812 command set registered.
func New(addr string) *Client {
	return &Client{
		Addr:         addr,
		Serializer:   NewRFC2812Serializer(),
		LineHandlers: []LineHandler{ParseDispatch},
	}
}

// Connect dials the server and starts the read loop. It fires
// EventClientConnect after the connection is established and returns
// without waiting for the event's handlers.
//
// Connect returns ErrAlreadyConnected unless the client is fully
// disconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.status != statusDisconnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.status = statusConnecting
	dialing := make(chan struct{})
	c.dialing = dialing
	c.mu.Unlock()

	abort := func() {
		c.mu.Lock()
		c.status = statusDisconnected
		close(dialing)
		c.mu.Unlock()
	}

	dial := c.Dial
	if dial == nil {
		if c.Addr == "" {
			abort()
			return errors.New("irc: Addr cannot be empty when Dial is nil")
		}
		d := &tls.Dialer{}
		dial = func() (io.ReadWriteCloser, error) {
			return d.DialContext(ctx, "tcp", c.Addr)
		}
	}

	rwc, err := dial()
	if err != nil {
		abort()
		return errors.Wrap(err, "dial")
	}

	conn := &connection{rwc: rwc, down: make(chan struct{})}
	c.mu.Lock()
	c.current = conn
	c.status = statusConnected
	c.mu.Unlock()

	// The connect event must fire before the read loop exists, so no
	// inbound event, and no disconnect from any source, can be observed
	// ahead of it for this connection instance.
	c.Trigger(EventClientConnect, c.addrFields())
	close(dialing)
	go c.readLoop(conn)
	return nil
}

// Disconnect closes the connection and returns once the connection's
// EventClientDisconnect fire has completed, or ctx expires. Calling it
// concurrently with another Disconnect, or while a remote close is in
// flight, still produces exactly one transport close and one disconnect
// event. A Disconnect that arrives while Connect is still dialing waits
// for the dial to settle and then closes whatever connection it
// produced. Disconnecting an already disconnected client is a no-op.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	dialing := c.dialing
	c.mu.Unlock()
	if dialing != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-dialing:
		}
	}

	c.mu.Lock()
	conn := c.current
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	c.shutdown(conn)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-conn.down:
		return nil
	}
}

// Send serializes command with fields and writes the resulting line.
// A ValidationError from the serializer means nothing was written.
func (c *Client) Send(command string, fields Fields) error {
	line, err := c.serializer().Serialize(command, fields)
	if err != nil {
		return err
	}
	return c.SendRaw(line)
}

// SendRaw writes one line to the connection, appending CR-LF. It returns
// ErrNotConnected when no connection is established. A write failure
// shuts the connection down through the usual disconnect path before
// returning the error.
func (c *Client) SendRaw(line string) error {
	c.mu.Lock()
	conn, status := c.current, c.status
	c.mu.Unlock()
	if status != statusConnected || conn == nil {
		return ErrNotConnected
	}

	line = strings.TrimRight(line, "\r\n")
	if _, err := io.WriteString(conn.rwc, line+"\r\n"); err != nil {
		c.shutdown(conn)
		return errors.Wrap(err, "write")
	}
	return nil
}

// IsClosing reports whether the client cannot currently send: it is
// disconnected, still connecting, or in the middle of disconnecting.
func (c *Client) IsClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status != statusConnected
}

// On registers fn for event on the client's bus. See Bus.On.
func (c *Client) On(event string, fn any) (*Subscription, error) {
	return c.eventBus().On(event, fn)
}

// Off removes a registration made with On.
func (c *Client) Off(sub *Subscription) {
	c.eventBus().Off(sub)
}

// Trigger fires event on the client's bus. See Bus.Trigger.
func (c *Client) Trigger(event string, fields Fields) *Fire {
	return c.eventBus().Trigger(event, fields)
}

// Wait blocks until the next trigger of event. See Bus.Wait.
func (c *Client) Wait(ctx context.Context, event string) (Fields, error) {
	return c.eventBus().Wait(ctx, event)
}

// WaitFor waits on several events at once. See Bus.WaitFor.
func (c *Client) WaitFor(ctx context.Context, events []string, mode WaitMode) ([]Fields, error) {
	return c.eventBus().WaitFor(ctx, events, mode)
}

// readLoop scans CR-LF delimited lines from conn and runs each through
// the pipeline. It owns the shutdown of its connection: when the scan
// ends for any reason, the close-once disconnect path runs.
func (c *Client) readLoop(conn *connection) {
	s := bufio.NewScanner(conn.rwc)
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		c.mu.Lock()
		handlers := append([]LineHandler(nil), c.LineHandlers...)
		c.mu.Unlock()
		if len(handlers) == 0 {
			handlers = []LineHandler{ParseDispatch}
		}
		runPipeline(handlers, c, line)
	}
	if err := s.Err(); err != nil {
		c.logger().Warn("connection read failed", "err", err)
	}
	c.shutdown(conn)
}

// shutdown runs the close-once disconnect path for conn: close the
// transport, fire EventClientDisconnect, and release the client for the
// next Connect. Every failure source funnels through here, so user code
// observes connection loss as a single disconnect event rather than an
// error.
func (c *Client) shutdown(conn *connection) {
	conn.closeOnce.Do(func() {
		c.setStatus(statusDisconnecting)
		if err := conn.rwc.Close(); err != nil {
			c.logger().Debug("connection close failed", "err", err)
		}

		c.mu.Lock()
		if c.current == conn {
			c.current = nil
		}
		c.status = statusDisconnected
		c.mu.Unlock()

		fire := c.Trigger(EventClientDisconnect, c.addrFields())
		go func() {
			<-fire.Done()
			close(conn.down)
		}()
	})
}

func (c *Client) addrFields() Fields {
	host, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		host, port = c.Addr, ""
	}
	return Fields{"host": host, "port": port}
}

func (c *Client) setStatus(s clientStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *Client) eventBus() *Bus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus == nil {
		c.bus = NewBus()
	}
	return c.bus
}

func (c *Client) serializer() *Serializer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Serializer == nil {
		c.Serializer = NewRFC2812Serializer()
	}
	return c.Serializer
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

type clientStatus int

func (s clientStatus) String() string {
	switch s {
	case statusDisconnected:
		return "disconnected"
	case statusConnecting:
		return "connecting"
	case statusConnected:
		return "connected"
	case statusDisconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

const (
	statusDisconnected clientStatus = iota
	statusConnecting
	statusConnected
	statusDisconnecting
)
