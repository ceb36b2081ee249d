package handlers

import (
	"encoding/json"
	"net/http"

	"groupchat/internal/core/domain"
	"groupchat/internal/core/services"
	"groupchat/internal/platform/logger"
)

// ChatHandler serves the read-only views over the chat data: the durable
// history and the live room roster.
type ChatHandler struct {
	chat *services.ChatService
	room string
}

func NewChatHandler(chat *services.ChatService, room string) *ChatHandler {
	return &ChatHandler{chat: chat, room: room}
}

// History returns all persisted messages in insertion order.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	records, err := h.chat.History(r.Context())
	if err != nil {
		log.ErrorContext(r.Context(), "chat handler - history failed", "err", err)
		http.Error(w, "history lookup failed", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.Record{}
	}
	json.NewEncoder(w).Encode(records)
}

// Presence returns the identities currently online in the room.
func (h *ChatHandler) Presence(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	online, err := h.chat.Roster(r.Context(), h.room)
	if err != nil {
		log.ErrorContext(r.Context(), "chat handler - presence failed", "room", h.room, "err", err)
		http.Error(w, "presence lookup failed", http.StatusInternalServerError)
		return
	}
	if online == nil {
		online = []string{}
	}
	json.NewEncoder(w).Encode(map[string]any{
		"room":   h.room,
		"online": online,
	})
}
