package redis

import (
	"context"
	"encoding/json"

	"groupchat/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// StreamPublisher is the event bus producer. One accepted chat message
// becomes one XADD onto the shared stream; downstream consumers read it
// with their own consumer groups.
type StreamPublisher struct {
	rdb    *redis.Client
	stream string
}

func NewStreamPublisher(rdb *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{rdb: rdb, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, ev domain.Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: 10000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"data": raw},
	}).Err()
}
