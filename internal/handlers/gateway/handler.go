package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/unitychat/gateway/internal/auth"
	"github.com/unitychat/gateway/internal/common/uuid"
	presenceService "github.com/unitychat/gateway/internal/services/presence"
	roomsService "github.com/unitychat/gateway/internal/services/rooms"
	typingService "github.com/unitychat/gateway/internal/services/typing"
	voiceService "github.com/unitychat/gateway/internal/services/voice"
)

// Config holds configuration for the gateway handler
type Config struct {
	// Hub fans events out to connections. It is created first so the
	// coordinators can share it as their dispatcher.
	Hub *Hub

	// Verifier authenticates the connection handshake
	Verifier auth.Verifier

	// Rooms manages room membership
	Rooms roomsService.Service

	// Presence tracks online status
	Presence presenceService.Service

	// Typing coordinates typing indicators
	Typing typingService.Service

	// Voice coordinates voice sessions
	Voice voiceService.Service

	// UUIDGenerator provides connection ids
	UUIDGenerator uuid.UUID

	// Logger for connection lifecycle and routing
	Logger *slog.Logger

	// CheckOrigin overrides the upgrader origin policy; nil allows all,
	// which suits a gateway fronted by a reverse proxy
	CheckOrigin func(r *http.Request) bool
}

// Gateway upgrades authenticated HTTP requests to websocket connections and
// wires each connection into the coordinators.
type Gateway struct {
	hub      *Hub
	verifier auth.Verifier
	rooms    roomsService.Service
	presence presenceService.Service
	typing   typingService.Service
	voice    voiceService.Service
	uuider   uuid.UUID
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a new gateway handler around an existing hub.
func New(cfg *Config) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	if cfg.Verifier == nil {
		return nil, errors.New("verifier cannot be nil")
	}

	if cfg.Rooms == nil {
		return nil, errors.New("rooms service cannot be nil")
	}

	if cfg.Presence == nil {
		return nil, errors.New("presence service cannot be nil")
	}

	if cfg.Typing == nil {
		return nil, errors.New("typing service cannot be nil")
	}

	if cfg.Voice == nil {
		return nil, errors.New("voice service cannot be nil")
	}

	if cfg.UUIDGenerator == nil {
		return nil, errors.New("UUID generator cannot be nil")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}

	logger := cfg.Logger.With(slog.String("component", "gateway"))

	return &Gateway{
		hub:      cfg.Hub,
		verifier: cfg.Verifier,
		rooms:    cfg.Rooms,
		presence: cfg.Presence,
		typing:   cfg.Typing,
		voice:    cfg.Voice,
		uuider:   cfg.UUIDGenerator,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}, nil
}

// Hub exposes the fanout dispatcher so other delivery paths (message CRUD,
// friend notifications) can reuse it.
func (g *Gateway) Hub() *Hub {
	return g.hub
}

// ServeHTTP authenticates the handshake, upgrades the connection, bootstraps
// room membership and presence, and starts the connection's pumps. A failed
// handshake terminates before any state is created.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := g.verifier.Verify(bearerToken(r))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &Client{
		id:       g.uuider.NewUUID(),
		userID:   identity.UserID,
		username: identity.Username,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
	}

	g.hub.Register(client)

	out, err := g.rooms.BootstrapConnection(r.Context(), &roomsService.BootstrapConnectionInput{
		ConnID: client.id,
		UserID: client.userID,
	})
	if err != nil {
		// Bootstrap only fails on malformed input; treat it as fatal for
		// this connection
		g.logger.Error("connection bootstrap failed",
			slog.String("user_id", client.userID),
			slog.Any("error", err))
		g.hub.Unregister(client.id)
		_ = conn.Close()
		return
	}
	client.guildIDs = out.GuildIDs

	if err := g.presence.HandleConnect(r.Context(), &presenceService.HandleConnectInput{
		ConnID:   client.id,
		UserID:   client.userID,
		Username: client.username,
		GuildIDs: client.guildIDs,
	}); err != nil {
		g.logger.Error("presence connect failed",
			slog.String("user_id", client.userID),
			slog.Any("error", err))
	}

	g.logger.Info("user connected",
		slog.String("user_id", client.userID),
		slog.String("username", client.username),
		slog.String("conn_id", client.id))

	go client.writePump(g)
	go client.readPump(g)
}

// handleDisconnect tears the connection down: fanout registration first,
// then typing timers, presence reconciliation, and finally voice cleanup,
// which runs to completion even though the connection object is gone.
func (g *Gateway) handleDisconnect(c *Client) {
	ctx := context.Background()

	g.hub.Unregister(c.id)

	if err := g.typing.HandleDisconnect(ctx, &typingService.HandleDisconnectInput{ConnID: c.id}); err != nil {
		g.logger.Warn("typing disconnect cleanup failed", slog.Any("error", err))
	}

	if err := g.presence.HandleDisconnect(ctx, &presenceService.HandleDisconnectInput{
		ConnID:   c.id,
		UserID:   c.userID,
		Username: c.username,
		GuildIDs: c.guildIDs,
	}); err != nil {
		g.logger.Warn("presence disconnect failed", slog.Any("error", err))
	}

	if err := g.voice.HandleDisconnect(ctx, &voiceService.HandleDisconnectInput{
		ConnID: c.id,
		UserID: c.userID,
	}); err != nil {
		g.logger.Warn("voice disconnect cleanup failed", slog.Any("error", err))
	}

	g.logger.Info("user disconnected",
		slog.String("user_id", c.userID),
		slog.String("conn_id", c.id))
}

// bearerToken pulls the credential from the query string or the
// Authorization header.
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}
