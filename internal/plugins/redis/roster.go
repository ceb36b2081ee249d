package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RoomRoster keeps a per-room set of connected identities, serving the
// read-only presence endpoint. Delivery correctness never depends on it.
type RoomRoster struct {
	rdb *redis.Client
}

func NewRoomRoster(rdb *redis.Client) *RoomRoster {
	return &RoomRoster{rdb: rdb}
}

func (r *RoomRoster) key(room string) string {
	return "roster:" + room
}

func (r *RoomRoster) Add(ctx context.Context, room, userID string) error {
	return r.rdb.SAdd(ctx, r.key(room), userID).Err()
}

func (r *RoomRoster) Remove(ctx context.Context, room, userID string) error {
	return r.rdb.SRem(ctx, r.key(room), userID).Err()
}

func (r *RoomRoster) List(ctx context.Context, room string) ([]string, error) {
	return r.rdb.SMembers(ctx, r.key(room)).Result()
}
