// Package ws holds the long-lived stream connection. One Conn carries one
// subscription topic; there is no multiplexing, reconnection or renewal
// scheduling here. A dropped connection surfaces through the message
// channel closing, and the caller decides what to do about it.
package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
)

// DefaultBufferSize is the message channel capacity when none is given.
const DefaultBufferSize = 256

// deadlineSlack keeps the read deadline comfortably ahead of the
// exchange's ping cadence (documented every 3 minutes).
const deadlineSlack = 10 * time.Minute

// Options tune a single connection.
type Options struct {
	// BufferSize is the capacity of the inbound message channel. When
	// the consumer falls behind, messages are dropped with a warning.
	BufferSize int
	// Logger receives connection lifecycle and drop events.
	Logger zerolog.Logger
}

// Conn is an open duplex stream connection.
type Conn struct {
	url    string
	sock   *gws.Conn
	state  state
	logger zerolog.Logger

	msgs      chan []byte
	opened    chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

type handler struct {
	conn *Conn
}

// Dial opens a stream connection to url and starts its read loop. The
// returned Conn is ready once Dial returns.
func Dial(ctx context.Context, url string, opts Options) (*Conn, error) {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}

	c := &Conn{
		url:    url,
		logger: opts.Logger,
		msgs:   make(chan []byte, opts.BufferSize),
		opened: make(chan struct{}),
		done:   make(chan struct{}),
	}
	c.state.store(StateConnecting)

	sock, _, err := gws.NewClient(&handler{conn: c}, &gws.ClientOption{Addr: url})
	if err != nil {
		c.state.store(StateClosed)
		return nil, fmt.Errorf("dial stream: %w", err)
	}
	c.sock = sock

	c.wg.Go(func() {
		sock.ReadLoop()
	})

	select {
	case <-c.opened:
		return c, nil
	case <-ctx.Done():
		_ = sock.NetConn().Close()
		c.state.store(StateClosed)
		return nil, ctx.Err()
	}
}

func (h *handler) OnOpen(sock *gws.Conn) {
	h.conn.state.store(StateConnected)
	_ = sock.SetDeadline(time.Now().Add(deadlineSlack))
	h.conn.logger.Info().Str("url", h.conn.url).Msg("stream connected")
	close(h.conn.opened)
}

func (h *handler) OnClose(sock *gws.Conn, err error) {
	h.conn.logger.Warn().Err(err).Str("url", h.conn.url).Msg("stream disconnected")
	h.conn.shutdown()
}

func (h *handler) OnPing(sock *gws.Conn, payload []byte) {
	// The exchange drops connections that do not answer pings.
	_ = sock.SetDeadline(time.Now().Add(deadlineSlack))
	_ = sock.WritePong(payload)
}

func (h *handler) OnPong(sock *gws.Conn, payload []byte) {
	_ = sock.SetDeadline(time.Now().Add(deadlineSlack))
}

func (h *handler) OnMessage(sock *gws.Conn, message *gws.Message) {
	defer message.Close()

	data := message.Bytes()
	if len(data) == 0 {
		return
	}
	payload := make([]byte, len(data))
	copy(payload, data)

	select {
	case h.conn.msgs <- payload:
	case <-h.conn.done:
	default:
		h.conn.logger.Warn().Str("url", h.conn.url).Msg("stream buffer full, dropping message")
	}
}

// Messages returns the inbound message channel. It is closed when the
// connection ends, however that happens.
func (c *Conn) Messages() <-chan []byte {
	return c.msgs
}

// State returns the connection's lifecycle position.
func (c *Conn) State() ConnState {
	return c.state.load()
}

// WriteMessage sends a text frame.
func (c *Conn) WriteMessage(data []byte) error {
	if c.state.load() != StateConnected {
		return fmt.Errorf("stream is not connected")
	}
	return c.sock.WriteMessage(gws.OpcodeText, data)
}

// SendJSON marshals v and sends it as a text frame.
func (c *Conn) SendJSON(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal stream payload: %w", err)
	}
	return c.WriteMessage(data)
}

// Ping sends a ping frame.
func (c *Conn) Ping() error {
	if c.state.load() != StateConnected {
		return fmt.Errorf("stream is not connected")
	}
	return c.sock.WritePing(nil)
}

// Close tears the connection down and closes the message channel. The
// channel close happens on the read loop's way out, so in-flight message
// delivery never races with it.
func (c *Conn) Close() error {
	if c.sock != nil {
		_ = c.sock.NetConn().Close()
	}
	c.wg.Wait()
	c.shutdown()
	return nil
}

func (c *Conn) shutdown() {
	c.closeOnce.Do(func() {
		c.state.store(StateClosed)
		close(c.done)
		close(c.msgs)
	})
}
