package gateway

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// sendBufferSize is the per-connection outbound queue
	sendBufferSize = 256

	// maxMessageSize bounds inbound frames
	maxMessageSize = 4096

	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Client is one live authenticated connection. Per-connection state (joined
// rooms live in the hub indexes, guild ids below) is only touched from the
// connection's own pumps and the handshake that created it.
type Client struct {
	id       string
	userID   string
	username string

	conn *websocket.Conn
	send chan []byte

	// closed is guarded by the hub mutex
	closed bool

	// guildIDs resolved at bootstrap, reused for the disconnect fanout
	guildIDs []string
}

// readPump consumes inbound frames in arrival order and hands them to the
// gateway's router. It owns the connection's disconnect cleanup.
func (c *Client) readPump(g *Gateway) {
	defer func() {
		g.handleDisconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		g.logger.Warn("failed to set read deadline", slog.Any("error", err))
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) && !errors.Is(err, io.EOF) {
				g.logger.Warn("websocket read error",
					slog.String("conn_id", c.id),
					slog.Any("error", err))
			}
			return
		}

		g.route(c, raw)
	}
}

// writePump drains the send channel and keeps the connection alive with
// periodic pings.
func (c *Client) writePump(g *Gateway) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				g.logger.Debug("websocket write error",
					slog.String("conn_id", c.id),
					slog.Any("error", err))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
