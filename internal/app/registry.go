package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/CureSaba/discord-join2create/internal/domain"
)

// OwnedRoom is a read-only view of one registry entry.
type OwnedRoom struct {
	Room  domain.ChannelID `json:"room_id"`
	Owner domain.UserID    `json:"owner_id"`
}

// Registry is the authoritative in-memory room → owner mapping. It
// holds exactly the channels this system created as personal rooms;
// the lobby is never present. Entries are inserted and removed, never
// mutated: ownership does not transfer.
//
// A reverse owner → room index is kept in lockstep under the same
// lock, so RoomOf is a consistent snapshot read rather than a scan.
// State is process-memory only and rebuilt from observed platform
// events after a restart.
type Registry struct {
	mu     sync.RWMutex
	owners map[domain.ChannelID]domain.UserID
	rooms  map[domain.UserID]domain.ChannelID
}

func NewRegistry() *Registry {
	return &Registry{
		owners: make(map[domain.ChannelID]domain.UserID),
		rooms:  make(map[domain.UserID]domain.ChannelID),
	}
}

// Put records ownership of a freshly created room. The caller
// guarantees the room id is new.
func (r *Registry) Put(room domain.ChannelID, owner domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[room] = owner
	r.rooms[owner] = room
	log.Info().Str("module", "app.registry").Str("room", string(room)).Str("owner", string(owner)).Msg("registered room")
}

func (r *Registry) OwnerOf(room domain.ChannelID) (domain.UserID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[room]
	return owner, ok
}

func (r *Registry) RoomOf(owner domain.UserID) (domain.ChannelID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[owner]
	return room, ok
}

// Remove deletes the entry for room if present; no-op otherwise.
func (r *Registry) Remove(room domain.ChannelID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[room]
	if !ok {
		return
	}
	delete(r.owners, room)
	// The reverse index may already point at a newer room for this
	// owner; only unlink it if it still refers to the removed one.
	if r.rooms[owner] == room {
		delete(r.rooms, owner)
	}
	log.Info().Str("module", "app.registry").Str("room", string(room)).Str("owner", string(owner)).Msg("removed room")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owners)
}

// Snapshot returns a point-in-time copy of all entries.
func (r *Registry) Snapshot() []OwnedRoom {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]OwnedRoom, 0, len(r.owners))
	for room, owner := range r.owners {
		out = append(out, OwnedRoom{Room: room, Owner: owner})
	}
	return out
}
