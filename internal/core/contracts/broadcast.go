package contracts

import (
	"context"

	"groupchat/internal/core/domain"
)

// Member is the minimal interface the broadcaster needs to deliver frames
// to one WebSocket connection. ID is the connection id, not the user id:
// the same user may hold several connections.
type Member interface {
	ID() string
	UserID() string
	Send(ctx context.Context, data []byte) error
	Close()
}

// Broadcaster maintains per-room membership and fans messages out to every
// member of a room. Join and Leave are idempotent.
type Broadcaster interface {
	// Join adds a member to the room, creating the room on first use.
	Join(room string, m Member)
	// Leave removes the member; leaving a room it is not in is a no-op.
	Leave(room string, m Member)
	// Broadcast delivers the encoded message to the membership snapshot
	// taken at call time and returns the number of successful deliveries.
	Broadcast(ctx context.Context, room string, msg domain.ChatMessage) int
}
