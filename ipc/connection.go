package ipc

import (
	"log/slog"
	"net"

	"golang.org/x/time/rate"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single UI client. Each client plays one player,
// identified after the hello handshake.
type Connection struct {
	conn          net.Conn
	handlers      map[string]Handler
	limiter       *rate.Limiter
	compressAbove int
	Player        string
}

type Option func(*Connection)

// WithRateLimit answers requests beyond perSecond (with the given burst)
// with an error instead of dispatching them.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Connection) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCompression lz4-compresses outgoing payloads larger than threshold
// bytes.
func WithCompression(threshold int) Option {
	return func(c *Connection) {
		c.compressAbove = threshold
	}
}

func NewConnection(conn net.Conn, handlers map[string]Handler, opts ...Option) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	c := &Connection{
		conn:     conn,
		handlers: handlers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return WriteEnvelope(c.conn, env, c.compressAbove)
}

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "player", c.Player, "error", err)
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			slog.Warn("request rate limited", "type", env.Type, "player", c.Player)
			if !c.sendError(env.Type, "rate limit exceeded") {
				return
			}
			continue
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			if !c.sendError(env.Type, "unknown message type") {
				return
			}
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			if !c.sendError(env.Type, err.Error()) {
				return
			}
			continue
		}

		if resp != nil {
			if err := WriteEnvelope(c.conn, *resp, c.compressAbove); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "player", c.Player)
		}
	}
}

// sendError reports whether the error reply went out.
func (c *Connection) sendError(request, msg string) bool {
	if err := c.Send(TypeError, ErrorMessage{Request: request, Error: msg}); err != nil {
		slog.Error("failed to send error", "type", request, "error", err)
		return false
	}
	return true
}
