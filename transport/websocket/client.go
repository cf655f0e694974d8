package websocket

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type outbound struct {
	messageType int
	data        []byte
}

// client wraps one websocket connection. The hub enqueues outbound frames
// without blocking; the write pump drains them. Frames for a slow consumer
// are dropped, keeping the relay loop responsive.
type client struct {
	logger *slog.Logger
	socket *websocket.Conn

	send      chan outbound
	closeOnce sync.Once
}

func newClient(logger *slog.Logger, socket *websocket.Conn) *client {
	return &client{
		logger: logger.With("component", "client"),
		socket: socket,
		send:   make(chan outbound, messageBufferSize),
	}
}

func (that *client) SendText(data []byte) bool {
	return that.enqueue(websocket.TextMessage, data)
}

func (that *client) SendBinary(data []byte) bool {
	return that.enqueue(websocket.BinaryMessage, data)
}

func (that *client) enqueue(messageType int, data []byte) bool {
	select {
	case that.send <- outbound{messageType: messageType, data: data}:
		return true
	default:
		return false
	}
}

// Close - called by the hub to reject or drop the connection.
func (that *client) Close() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

// readPump - feeds inbound frames to the hub until the socket closes, then
// reports the disconnect so the registry entry and color are reclaimed.
func (that *client) readPump(hub Relay) {
	defer func() {
		hub.Disconnect(that)
		that.Close()
		_ = that.socket.Close()
	}()

	for {
		_, data, err := that.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Warn("unexpected close", "error", err)
			}
			return
		}

		hub.Receive(that, data)
	}
}

// writePump - drains the send queue onto the socket. A closed queue writes a
// close frame and drops the connection.
func (that *client) writePump() {
	for frame := range that.send {
		if err := that.socket.WriteMessage(frame.messageType, frame.data); err != nil {
			that.logger.Warn("failed to write frame", "error", err)
			return
		}
	}

	_ = that.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ""))
	_ = that.socket.Close()
}
