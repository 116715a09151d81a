package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gabapcia/stakebridge/internal/pkg/logger"
	"github.com/gabapcia/stakebridge/internal/sessionhub"

	"nhooyr.io/websocket"
)

const (
	// writeTimeout bounds a single frame write toward a client.
	writeTimeout = 10 * time.Second

	// outboundQueueSize is the per-connection frame buffer. A client that
	// falls further behind than this starts losing frames instead of
	// blocking relay fan-out.
	outboundQueueSize = 16
)

// conn adapts a websocket connection to the sessionhub.Conn contract:
// non-blocking sends through a bounded queue drained by a writer goroutine,
// and silent no-op sends once closed.
type conn struct {
	ws *websocket.Conn

	out       chan sessionhub.Frame
	done      chan struct{}
	closeOnce sync.Once
}

// Compile-time assertion that conn satisfies the sessionhub.Conn interface.
var _ sessionhub.Conn = (*conn)(nil)

// newConn wraps an accepted websocket connection.
func newConn(ws *websocket.Conn) *conn {
	return &conn{
		ws:   ws,
		out:  make(chan sessionhub.Frame, outboundQueueSize),
		done: make(chan struct{}),
	}
}

// Send queues a frame for delivery. It never blocks: frames to a closed
// connection are discarded, and a full queue drops the frame.
func (c *conn) Send(frame sessionhub.Frame) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.out <- frame:
	case <-c.done:
	default:
		logger.Warn(context.Background(), "client outbound queue full, dropping frame",
			"frame.type", frame.Type,
		)
	}
}

// Close tears the connection down. Safe to call multiple times.
func (c *conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close(websocket.StatusNormalClosure, "session closed")
	})
}

// writeLoop drains the outbound queue onto the socket, applying a per-write
// timeout. A failed write closes the connection; the read loop notices and
// detaches the session.
func (c *conn) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case frame := <-c.out:
			data, err := json.Marshal(frame)
			if err != nil {
				logger.Error(ctx, "failed to encode outbound frame",
					"frame.type", frame.Type,
					"error", err,
				)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = c.ws.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				c.Close()
				return
			}
		}
	}
}
