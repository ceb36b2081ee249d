package contracts

import "context"

// PresenceStore records online/offline transitions through the identity
// store. Called exactly twice per connection lifetime: once on join, once
// on cleanup. Failures are logged only.
type PresenceStore interface {
	SetStatus(ctx context.Context, userID string, status string) error
}

// RoomRoster tracks which identities are currently connected to a room,
// serving the read-only roster endpoint. Observability only; its loss does
// not affect message delivery.
type RoomRoster interface {
	Add(ctx context.Context, room, userID string) error
	Remove(ctx context.Context, room, userID string) error
	List(ctx context.Context, room string) ([]string, error)
}
