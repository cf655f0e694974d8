package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/chessrelay-backend/internal/relay"
)

const (
	socketBufferSize  = 1024
	messageBufferSize = 256
)

// Relay is the hub surface the transport feeds.
type Relay interface {
	Connect(conn relay.Conn)
	Disconnect(conn relay.Conn)
	Receive(conn relay.Conn, data []byte)
}

type Server struct {
	logger   *slog.Logger
	hub      Relay
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, hub Relay) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  socketBufferSize,
			WriteBufferSize: socketBufferSize,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// Start - starts the WebSocket server and shuts it down when the context is
// canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// serveWS - upgrades the connection and runs its read and write pumps.
func (that *Server) serveWS(w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	socket, err := that.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that.logger, socket)
	that.hub.Connect(client)

	go client.writePump()
	client.readPump(that.hub)
}
