package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"groupchat/internal/core/contracts"
	"groupchat/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct {
	joined    []string
	left      []string
	messages  []domain.ChatMessage
	delivered int
}

func (b *fakeBroadcaster) Join(room string, m contracts.Member)  { b.joined = append(b.joined, m.ID()) }
func (b *fakeBroadcaster) Leave(room string, m contracts.Member) { b.left = append(b.left, m.ID()) }

func (b *fakeBroadcaster) Broadcast(_ context.Context, room string, msg domain.ChatMessage) int {
	b.messages = append(b.messages, msg)
	return b.delivered
}

type fakeMessageRepo struct {
	records  []domain.Record
	failWith error
}

func (r *fakeMessageRepo) Insert(_ context.Context, rec *domain.Record) (string, error) {
	if r.failWith != nil {
		return "", r.failWith
	}
	r.records = append(r.records, *rec)
	return rec.ID, nil
}

func (r *fakeMessageRepo) FindAll(_ context.Context) ([]domain.Record, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.records, nil
}

type fakePublisher struct {
	events   []domain.Event
	failWith error
}

func (p *fakePublisher) Publish(_ context.Context, ev domain.Event) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeRoster struct {
	added   []string
	removed []string
}

func (r *fakeRoster) Add(_ context.Context, room, userID string) error {
	r.added = append(r.added, userID)
	return nil
}

func (r *fakeRoster) Remove(_ context.Context, room, userID string) error {
	r.removed = append(r.removed, userID)
	return nil
}

func (r *fakeRoster) List(_ context.Context, room string) ([]string, error) {
	return append([]string(nil), r.added...), nil
}

// syncSinkPool runs each job inline so tests observe sink effects
// deterministically.
type syncSinkPool struct {
	full bool
}

func (p *syncSinkPool) Enqueue(job contracts.SinkJob) bool {
	if p.full {
		return false
	}
	job(context.Background())
	return true
}

type stubMember struct {
	id     string
	userID string
}

func (m *stubMember) ID() string                             { return m.id }
func (m *stubMember) UserID() string                         { return m.userID }
func (m *stubMember) Send(_ context.Context, _ []byte) error { return nil }
func (m *stubMember) Close()                                 {}

type chatFixture struct {
	svc         *ChatService
	broadcaster *fakeBroadcaster
	messages    *fakeMessageRepo
	publisher   *fakePublisher
	users       *fakeUserRepo
	roster      *fakeRoster
	pool        *syncSinkPool
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	f := &chatFixture{
		broadcaster: &fakeBroadcaster{},
		messages:    &fakeMessageRepo{},
		publisher:   &fakePublisher{},
		users:       newFakeUserRepo(),
		roster:      &fakeRoster{},
		pool:        &syncSinkPool{},
	}
	f.svc = NewChatService(slog.Default(), f.broadcaster, f.messages, f.publisher, f.users, f.roster, f.pool)
	return f
}

func TestHandleFrameBroadcastsPersistsAndPublishes(t *testing.T) {
	f := newChatFixture(t)
	f.broadcaster.delivered = 2
	m := &stubMember{id: "c1", userID: "u1"}

	err := f.svc.HandleFrame(context.Background(), "chat", m, []byte(`{"message":"hi"}`))

	require.NoError(t, err)
	require.Len(t, f.broadcaster.messages, 1)
	sent := f.broadcaster.messages[0]
	assert.Equal(t, "chat", sent.Room)
	assert.Equal(t, "u1", sent.SenderID)
	assert.Equal(t, "hi", sent.Text)
	assert.WithinDuration(t, time.Now(), sent.CreatedAt, time.Second)

	require.Len(t, f.messages.records, 1)
	rec := f.messages.records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "chat", rec.Room)
	assert.Equal(t, "hi", rec.Message)
	assert.Equal(t, "u1", rec.SenderID)
	// The persisted timestamp is the broadcast timestamp, never re-derived.
	assert.True(t, rec.Timestamp.Equal(sent.CreatedAt))

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.Event{Room: "chat", Message: "hi", SenderID: "u1"}, f.publisher.events[0])
}

func TestHandleFrameDropsInvalidFrames(t *testing.T) {
	f := newChatFixture(t)
	m := &stubMember{id: "c1", userID: "u1"}

	for _, raw := range []string{`{}`, `{"message":""}`, `garbage`, `[1,2]`} {
		err := f.svc.HandleFrame(context.Background(), "chat", m, []byte(raw))
		assert.Error(t, err, "frame %q should be dropped", raw)
	}

	assert.Empty(t, f.broadcaster.messages)
	assert.Empty(t, f.messages.records)
	assert.Empty(t, f.publisher.events)
}

func TestHandleFrameStoreFailureDoesNotSuppressPublish(t *testing.T) {
	f := newChatFixture(t)
	f.messages.failWith = errors.New("store down")
	m := &stubMember{id: "c1", userID: "u1"}

	err := f.svc.HandleFrame(context.Background(), "chat", m, []byte(`{"message":"hi"}`))

	require.NoError(t, err)
	assert.Len(t, f.broadcaster.messages, 1)
	assert.Len(t, f.publisher.events, 1)
}

func TestHandleFramePublishFailureDoesNotSuppressStore(t *testing.T) {
	f := newChatFixture(t)
	f.publisher.failWith = errors.New("bus down")
	m := &stubMember{id: "c1", userID: "u1"}

	err := f.svc.HandleFrame(context.Background(), "chat", m, []byte(`{"message":"hi"}`))

	require.NoError(t, err)
	assert.Len(t, f.broadcaster.messages, 1)
	assert.Len(t, f.messages.records, 1)
}

func TestHandleFrameEmptyRoomStillSinks(t *testing.T) {
	f := newChatFixture(t)
	f.broadcaster.delivered = 0
	m := &stubMember{id: "c1", userID: "u1"}

	err := f.svc.HandleFrame(context.Background(), "chat", m, []byte(`{"message":"hi"}`))

	require.NoError(t, err)
	assert.Len(t, f.messages.records, 1)
	assert.Len(t, f.publisher.events, 1)
}

func TestHandleFrameFullSinkQueueKeepsConnectionAlive(t *testing.T) {
	f := newChatFixture(t)
	f.pool.full = true
	m := &stubMember{id: "c1", userID: "u1"}

	err := f.svc.HandleFrame(context.Background(), "chat", m, []byte(`{"message":"hi"}`))

	require.NoError(t, err)
	assert.Len(t, f.broadcaster.messages, 1)
	assert.Empty(t, f.messages.records)
	assert.Empty(t, f.publisher.events)
}

func TestHandleJoinMarksOnlineOnce(t *testing.T) {
	f := newChatFixture(t)
	f.users.add(&domain.User{ID: "u1", Username: "alice"})
	m := &stubMember{id: "c1", userID: "u1"}

	f.svc.HandleJoin(context.Background(), "chat", m)

	assert.Equal(t, []string{"c1"}, f.broadcaster.joined)
	assert.Equal(t, []string{domain.StatusOnline}, f.users.statuses["u1"])
	assert.Equal(t, []string{"u1"}, f.roster.added)
}

func TestHandleLeaveMarksOfflineOnce(t *testing.T) {
	f := newChatFixture(t)
	f.users.add(&domain.User{ID: "u1", Username: "alice"})
	m := &stubMember{id: "c1", userID: "u1"}

	f.svc.HandleJoin(context.Background(), "chat", m)
	f.svc.HandleLeave(context.Background(), "chat", m)

	assert.Equal(t, []string{"c1"}, f.broadcaster.left)
	assert.Equal(t, []string{domain.StatusOnline, domain.StatusOffline}, f.users.statuses["u1"])
	assert.Equal(t, []string{"u1"}, f.roster.removed)
}

func TestHandleJoinPresenceFailureIsIsolated(t *testing.T) {
	f := newChatFixture(t)
	f.users.failWith = errors.New("identity store down")
	m := &stubMember{id: "c1", userID: "u1"}

	f.svc.HandleJoin(context.Background(), "chat", m)

	// Membership still established despite the presence failure.
	assert.Equal(t, []string{"c1"}, f.broadcaster.joined)
}

func TestHistoryPassesThroughRecords(t *testing.T) {
	f := newChatFixture(t)
	now := time.Now().UTC()
	f.messages.records = []domain.Record{
		{ID: "r1", Room: "chat", Message: "a", SenderID: "u1", Timestamp: now},
		{ID: "r2", Room: "chat", Message: "b", SenderID: "u2", Timestamp: now},
	}

	records, err := f.svc.History(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, "r2", records[1].ID)
}
