package contracts

import (
	"context"

	"groupchat/internal/core/domain"
)

// EventPublisher pushes accepted messages onto the event bus for downstream
// consumers. Best-effort: a failed publish is logged by the caller and never
// affects the live delivery path.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}
