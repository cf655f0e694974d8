package relay

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/chessrelay-backend/internal/apperror"
)

// connState tracks a connection through its lifecycle:
// Connecting -> Identified -> Active -> Closed.
type connState int

const (
	stateConnecting connState = iota
	stateIdentified
	stateActive
)

type inboundFrame struct {
	conn Conn
	data []byte
}

type handshake struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Hub owns the client registry, the color pool and the game state cache, and
// drives the single event loop that mutates them. Handlers run to completion
// before the next event is dispatched, so none of the owned state is locked.
type Hub struct {
	logger *slog.Logger

	pool       *ColorPool
	registry   *Registry
	cache      *StateCache
	dispatcher *Dispatcher

	states map[Conn]connState

	register   chan Conn
	unregister chan Conn
	inbound    chan inboundFrame
	done       chan struct{}
}

func NewHub(logger *slog.Logger, palette []string, chatLimit int) *Hub {
	pool := NewColorPool(palette)
	registry := NewRegistry()
	cache := NewStateCache(chatLimit)

	return &Hub{
		logger:     logger.With("component", "hub"),
		pool:       pool,
		registry:   registry,
		cache:      cache,
		dispatcher: NewDispatcher(logger, cache, registry),
		states:     make(map[Conn]connState),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		inbound:    make(chan inboundFrame, 256),
		done:       make(chan struct{}),
	}
}

// Run - the event loop. Exits when the context is canceled.
func (that *Hub) Run(ctx context.Context) {
	defer close(that.done)

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("hub stopped")
			return
		case conn := <-that.register:
			that.handleConnect(conn)
		case conn := <-that.unregister:
			that.handleClose(conn)
		case frame := <-that.inbound:
			that.handleFrame(frame.conn, frame.data)
		}
	}
}

// Connect - hands a new transport connection to the event loop.
func (that *Hub) Connect(conn Conn) {
	select {
	case that.register <- conn:
	case <-that.done:
	}
}

// Disconnect - reports a closed transport connection to the event loop.
func (that *Hub) Disconnect(conn Conn) {
	select {
	case that.unregister <- conn:
	case <-that.done:
	}
}

// Receive - hands one inbound frame to the event loop.
func (that *Hub) Receive(conn Conn, data []byte) {
	select {
	case that.inbound <- inboundFrame{conn: conn, data: data}:
	case <-that.done:
	}
}

func (that *Hub) handleConnect(conn Conn) {
	that.states[conn] = stateConnecting
}

// handleFrame - advances the per-connection state machine. The first frame is
// the bare identity string; everything after it is an application frame.
func (that *Hub) handleFrame(conn Conn, data []byte) {
	log := that.logger.With("method", "handleFrame")

	state, ok := that.states[conn]
	if !ok {
		log.Warn("frame from unknown connection dropped")
		return
	}

	if state == stateConnecting {
		that.identify(conn, data)
		return
	}

	member := that.registry.Lookup(conn)
	if member == nil {
		log.Warn("frame from unregistered connection dropped")
		return
	}

	if err := that.dispatcher.Handle(member, data); err != nil {
		log.Error("dropped frame", "identity", member.Identity, "error", err)
		return
	}

	if state == stateIdentified {
		that.states[conn] = stateActive
	}
}

// identify - registers the connection under its identity, checks a color out
// of the pool and sends the handshake reply. An exhausted pool rejects the
// connection instead of assigning a collision.
func (that *Hub) identify(conn Conn, data []byte) {
	log := that.logger.With("method", "identify")

	identity := html.EscapeString(strings.TrimSpace(string(data)))
	if identity == "" {
		log.Warn("empty identity frame, connection rejected")
		conn.Close()
		delete(that.states, conn)
		return
	}

	color, err := that.pool.Checkout()
	if errors.Is(err, apperror.ErrEmptyColorPool) {
		log.Warn("color pool exhausted, connection rejected", "identity", identity)
		conn.Close()
		delete(that.states, conn)
		return
	}

	that.registry.Add(conn, identity, color)
	that.states[conn] = stateIdentified

	reply, err := json.Marshal(handshake{Type: "color", Data: color})
	if err != nil {
		log.Error("failed to marshal handshake", "error", err)
		return
	}

	if !conn.SendText(reply) {
		log.Warn("failed to send handshake", "identity", identity)
	}

	log.Info("client identified", "identity", identity, "color", color)
}

// handleClose - cleans up the registry entry and returns its color.
func (that *Hub) handleClose(conn Conn) {
	log := that.logger.With("method", "handleClose")

	delete(that.states, conn)

	member := that.registry.Remove(conn)
	if member == nil {
		return
	}

	that.pool.Release(member.Color)
	log.Info("client disconnected", "identity", member.Identity, "color", member.Color)
}
