package services

import (
	"context"
	"log/slog"
	"time"

	"groupchat/internal/core/contracts"
	"groupchat/internal/core/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("chat-service")

// ChatService orchestrates one connection's joined lifetime: room membership,
// presence transitions, frame validation, fan-out and the dual sink writes.
// Everything past the broadcast is best-effort: a failing store, bus or
// presence write is logged and never unwinds the connection.
type ChatService struct {
	broadcaster contracts.Broadcaster
	messages    domain.MessageRepository
	publisher   contracts.EventPublisher
	presence    contracts.PresenceStore
	roster      contracts.RoomRoster
	sinks       contracts.SinkPool
	log         *slog.Logger
}

func NewChatService(
	log *slog.Logger,
	broadcaster contracts.Broadcaster,
	messages domain.MessageRepository,
	publisher contracts.EventPublisher,
	presence contracts.PresenceStore,
	roster contracts.RoomRoster,
	sinks contracts.SinkPool,
) *ChatService {
	return &ChatService{
		log:         log,
		broadcaster: broadcaster,
		messages:    messages,
		publisher:   publisher,
		presence:    presence,
		roster:      roster,
		sinks:       sinks,
	}
}

// HandleJoin registers the connection with its room and marks the identity
// online. Presence failures are logged only.
func (s *ChatService) HandleJoin(ctx context.Context, room string, m contracts.Member) {
	ctx, span := tracer.Start(ctx, "ChatService.HandleJoin", trace.WithAttributes(
		attribute.String("chat.room", room),
		attribute.String("user.id", m.UserID()),
	))
	defer span.End()
	s.broadcaster.Join(room, m)
	if err := s.presence.SetStatus(ctx, m.UserID(), domain.StatusOnline); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - handle join - presence update failed", "room", room, "user_id", m.UserID(), "err", err)
	}
	if err := s.roster.Add(ctx, room, m.UserID()); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - handle join - roster add failed", "room", room, "user_id", m.UserID(), "err", err)
	}
	s.log.InfoContext(ctx, "chat - handle join - member joined", "room", room, "user_id", m.UserID(), "conn_id", m.ID())
}

// HandleLeave deregisters the connection and marks the identity offline.
// Safe to call on any exit path; the broadcaster treats a repeated leave as
// a no-op.
func (s *ChatService) HandleLeave(ctx context.Context, room string, m contracts.Member) {
	ctx, span := tracer.Start(ctx, "ChatService.HandleLeave", trace.WithAttributes(
		attribute.String("chat.room", room),
		attribute.String("user.id", m.UserID()),
	))
	defer span.End()
	s.broadcaster.Leave(room, m)
	if err := s.presence.SetStatus(ctx, m.UserID(), domain.StatusOffline); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - handle leave - presence update failed", "room", room, "user_id", m.UserID(), "err", err)
	}
	if err := s.roster.Remove(ctx, room, m.UserID()); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - handle leave - roster remove failed", "room", room, "user_id", m.UserID(), "err", err)
	}
	s.log.InfoContext(ctx, "chat - handle leave - member left", "room", room, "user_id", m.UserID(), "conn_id", m.ID())
}

// HandleFrame validates one inbound frame and, when accepted, fans it out to
// the room and hands the persist and publish writes to the sink pool. A
// returned error always means the frame was dropped; the connection stays
// open.
func (s *ChatService) HandleFrame(ctx context.Context, room string, m contracts.Member, raw []byte) error {
	ctx, span := tracer.Start(ctx, "ChatService.HandleFrame", trace.WithAttributes(
		attribute.String("chat.room", room),
		attribute.String("user.id", m.UserID()),
		attribute.Int("payload_size", len(raw)),
	))
	defer span.End()
	in, err := domain.ParseInbound(raw)
	if err != nil {
		span.RecordError(err)
		s.log.WarnContext(ctx, "chat - handle frame - frame dropped", "room", room, "user_id", m.UserID(), "reason", err)
		return err
	}
	msg := domain.ChatMessage{
		Room:      room,
		SenderID:  m.UserID(),
		Text:      in.Message,
		CreatedAt: time.Now().UTC(),
	}
	delivered := s.broadcaster.Broadcast(ctx, room, msg)
	span.SetAttributes(attribute.Int("chat.delivered", delivered))
	s.log.InfoContext(ctx, "chat - handle frame - broadcast complete", "room", room, "user_id", m.UserID(), "delivered", delivered)
	s.enqueueSinks(ctx, msg)
	span.SetStatus(codes.Ok, "accepted")
	return nil
}

// enqueueSinks schedules the persist and publish writes independently so a
// failure in one never suppresses the other. Jobs run on the pool's own
// context: a disconnecting sender must not cancel an in-flight write.
func (s *ChatService) enqueueSinks(ctx context.Context, msg domain.ChatMessage) {
	persisted := s.sinks.Enqueue(func(jobCtx context.Context) {
		rec := &domain.Record{
			ID:        uuid.NewString(),
			Room:      msg.Room,
			Message:   msg.Text,
			SenderID:  msg.SenderID,
			Timestamp: msg.CreatedAt,
		}
		if _, err := s.messages.Insert(jobCtx, rec); err != nil {
			s.log.ErrorContext(jobCtx, "chat - persist message - insert failed", "room", msg.Room, "sender_id", msg.SenderID, "err", err)
			return
		}
		s.log.InfoContext(jobCtx, "chat - persist message - success", "room", msg.Room, "record_id", rec.ID)
	})
	if !persisted {
		s.log.ErrorContext(ctx, "chat - persist message - sink queue full", "room", msg.Room, "sender_id", msg.SenderID)
	}
	published := s.sinks.Enqueue(func(jobCtx context.Context) {
		ev := domain.Event{
			Room:     msg.Room,
			Message:  msg.Text,
			SenderID: msg.SenderID,
		}
		if err := s.publisher.Publish(jobCtx, ev); err != nil {
			s.log.ErrorContext(jobCtx, "chat - publish event - publish failed", "room", msg.Room, "sender_id", msg.SenderID, "err", err)
			return
		}
		s.log.InfoContext(jobCtx, "chat - publish event - success", "room", msg.Room)
	})
	if !published {
		s.log.ErrorContext(ctx, "chat - publish event - sink queue full", "room", msg.Room, "sender_id", msg.SenderID)
	}
}

// History returns every persisted record in insertion order.
func (s *ChatService) History(ctx context.Context) ([]domain.Record, error) {
	records, err := s.messages.FindAll(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "chat - history - find all failed", "err", err)
		return nil, err
	}
	s.log.InfoContext(ctx, "chat - history - success", "count", len(records))
	return records, nil
}

// Roster returns the identities currently connected to the room.
func (s *ChatService) Roster(ctx context.Context, room string) ([]string, error) {
	online, err := s.roster.List(ctx, room)
	if err != nil {
		s.log.ErrorContext(ctx, "chat - roster - list failed", "room", room, "err", err)
		return nil, err
	}
	return online, nil
}
