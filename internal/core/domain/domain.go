package domain

import (
	"time"
)

// User status values persisted in the identity store.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// User represents the persistent identity behind a connection.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Status       string
	CreatedAt    time.Time
}

// AuthContext is the resolved outcome of one connection's handshake.
// Created once per connection attempt, never mutated afterwards.
// Authenticated=false is a normal result, not an error.
type AuthContext struct {
	UserID        string
	Username      string
	Authenticated bool
	ExpiresAt     time.Time
}

// ChatMessage is an accepted inbound message. CreatedAt is assigned exactly
// once when the frame is validated; the broadcast, persistence and publish
// paths all reuse it so the three records carry the same timestamp.
type ChatMessage struct {
	Room      string
	SenderID  string
	Text      string
	CreatedAt time.Time
}

// Record is one row in the durable message store.
type Record struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Message   string    `json:"message"`
	SenderID  string    `json:"sender_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Event is the payload published to the event bus for downstream consumers.
type Event struct {
	Room     string `json:"room"`
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
}
