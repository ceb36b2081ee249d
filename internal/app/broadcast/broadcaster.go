// Package broadcast owns the live membership of every room and fans
// accepted messages out to the members. One Broadcaster instance is built
// at process start and shared by every connection goroutine.
package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"groupchat/internal/core/contracts"
	"groupchat/internal/core/domain"
)

// room is one broadcast domain. mu guards the member map only; sendMu
// serializes fan-out so two broadcasts to the same room arrive at every
// member in the same relative order. Delivery never runs under mu, so a
// slow member cannot stall joins and leaves.
type room struct {
	mu      sync.Mutex
	members map[string]contracts.Member
	sendMu  sync.Mutex
}

type Broadcaster struct {
	mu    sync.RWMutex
	rooms map[string]*room
	log   *slog.Logger
}

func NewBroadcaster(log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		rooms: make(map[string]*room),
		log:   log,
	}
}

// getRoom returns the room shard, creating it on first join. Rooms live for
// the process lifetime; an emptied room is kept since rejoining is expected.
func (b *Broadcaster) getRoom(name string) *room {
	b.mu.RLock()
	r, ok := b.rooms[name]
	b.mu.RUnlock()
	if ok {
		return r
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok = b.rooms[name]; ok {
		return r
	}
	r = &room{members: make(map[string]contracts.Member)}
	b.rooms[name] = r
	return r
}

func (b *Broadcaster) Join(name string, m contracts.Member) {
	r := b.getRoom(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[m.ID()] = m
}

func (b *Broadcaster) Leave(name string, m contracts.Member) {
	r := b.getRoom(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, m.ID())
}

// Broadcast encodes the message once and delivers it to the membership
// snapshot taken at call time. A member that fails to accept the frame is
// logged and skipped; the rest of the room still receives it.
func (b *Broadcaster) Broadcast(ctx context.Context, name string, msg domain.ChatMessage) int {
	r := b.getRoom(name)
	data := domain.EncodeOutbound(msg)

	r.sendMu.Lock()
	defer r.sendMu.Unlock()

	r.mu.Lock()
	snapshot := make([]contracts.Member, 0, len(r.members))
	for _, m := range r.members {
		snapshot = append(snapshot, m)
	}
	r.mu.Unlock()

	delivered := 0
	for _, m := range snapshot {
		if err := m.Send(ctx, data); err != nil {
			b.log.WarnContext(ctx, "broadcast - deliver - member send failed", "room", name, "conn_id", m.ID(), "err", err)
			continue
		}
		delivered++
	}
	return delivered
}

// Size reports the current membership count of a room.
func (b *Broadcaster) Size(name string) int {
	r := b.getRoom(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}
