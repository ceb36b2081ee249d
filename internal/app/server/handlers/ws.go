package handlers

import (
	"context"
	"net/http"
	"time"

	"groupchat/internal/app/server/ws"
	"groupchat/internal/core/services"
	"groupchat/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WSHandler runs one connection's lifecycle: authenticate, join, receive
// loop, guaranteed cleanup. The room is fixed per deployment; the
// broadcaster underneath is multi-room capable.
type WSHandler struct {
	auth *services.AuthService
	chat *services.ChatService
	room string
}

func NewWSHandler(auth *services.AuthService, chat *services.ChatService, room string) *WSHandler {
	return &WSHandler{
		auth: auth,
		chat: chat,
		room: room,
	}
}

func (h *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	span := trace.SpanFromContext(r.Context())

	// The gate runs against the handshake headers before the socket is
	// accepted; an I/O fault talking to the identity store is the only
	// error path.
	authCtx, err := h.auth.Authenticate(r.Context(), r.Header)

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten later
		},
	}
	conn, upgradeErr := upgrader.Upgrade(w, r, nil)
	if upgradeErr != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade failed", "err", upgradeErr)
		return
	}
	sock := ws.NewConn(sessionCtx, conn)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - identity lookup fault", "err", err)
		sock.CloseWithCode(ws.CloseInternalFault, "internal fault")
		return
	}
	if !authCtx.Authenticated {
		log.InfoContext(r.Context(), "ws handler - connection rejected", "remote_addr", r.RemoteAddr)
		sock.CloseWithCode(ws.CloseUnauthenticated, "authentication required")
		return
	}
	span.SetAttributes(
		attribute.String("user.id", authCtx.UserID),
		attribute.String("chat.room", h.room),
	)

	client := ws.NewClient(sessionCtx, sock, uuid.NewString(), authCtx.UserID, h.room)
	h.chat.HandleJoin(sessionCtx, h.room, client)
	// Exactly-once cleanup, regardless of which exit path ends the loop.
	defer h.chat.HandleLeave(sessionCtx, h.room, client)
	defer client.Close()
	defer func() {
		if rec := recover(); rec != nil {
			log.ErrorContext(sessionCtx, "ws handler - receive loop fault", "user_id", authCtx.UserID, "panic", rec)
			sock.CloseWithCode(ws.CloseInternalFault, "internal fault")
		}
	}()
	log.InfoContext(r.Context(), "ws handler - connection established", "user_id", authCtx.UserID, "room", h.room)

	sock.ReadLoop(func(data []byte) {
		if !authCtx.ExpiresAt.IsZero() && time.Now().After(authCtx.ExpiresAt) {
			log.WarnContext(sessionCtx, "ws handler - credential expired mid-session", "user_id", authCtx.UserID)
			sock.CloseWithCode(ws.CloseProtocolFault, "credential expired")
			return
		}
		// Parse failures drop the frame; the connection stays open.
		_ = h.chat.HandleFrame(sessionCtx, h.room, client, data)
	})
}
