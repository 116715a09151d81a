// Package websocket exposes the session hub over a WebSocket endpoint.
// Each accepted connection becomes one hub session; inbound messages are
// handed to the hub, outbound frames flow through a bounded per-connection
// queue so a slow client never stalls the relay.
package websocket

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gabapcia/stakebridge/internal/pkg/logger"
	"github.com/gabapcia/stakebridge/internal/sessionhub"

	"nhooyr.io/websocket"
)

// shutdownTimeout bounds how long a graceful HTTP shutdown may take.
const shutdownTimeout = 5 * time.Second

// Server accepts WebSocket connections and binds them to hub sessions.
type Server struct {
	hub sessionhub.Service
}

// NewServer creates a WebSocket server feeding the given hub.
func NewServer(hub sessionhub.Service) *Server {
	return &Server{
		hub: hub,
	}
}

// ServeHTTP upgrades the request and runs the session until the client
// disconnects or the server shuts down. Closing a session releases its
// resources immediately; issuance work in flight is not session-owned and
// keeps running.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		return
	}

	ctx := r.Context()

	c := newConn(ws)
	go c.writeLoop(ctx)

	session := s.hub.Attach(c)
	defer s.hub.Detach(session)

	logger.Info(ctx, "client session opened")
	defer logger.Info(ctx, "client session closed")

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status == -1 && ctx.Err() == nil {
				logger.Debug(ctx, "client read failed", "error", err)
			}
			return
		}

		s.hub.HandleMessage(ctx, session, data)
	}
}

// ListenAndServe runs the WebSocket endpoint on addr until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info(ctx, "websocket server listening", "server.addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
