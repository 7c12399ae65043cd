package core

import (
	"fmt"
	"sort"

	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultCapacity = 8

// RoomInfo is a read-only view for diagnostics.
type RoomInfo struct {
	ID       domain.RoomID `json:"id"`
	Size     int           `json:"participantCount"`
	Capacity int           `json:"maxParticipants"`
}

// Registry maps room ids to rooms. A room exists exactly while it has members.
//
// Registry is not safe for concurrent use. It is owned by a single event loop
// (see app.Hub) which serializes every read and mutation.
type Registry struct {
	capacity int
	rooms    map[domain.RoomID]*Room
}

func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		rooms:    make(map[domain.RoomID]*Room),
	}
}

func (g *Registry) Capacity() int { return g.capacity }

// CreateOrGet returns the room with the given id, creating an empty one if
// needed. A created room must receive a member in the same event; Join does
// that and is the normal entry point.
func (g *Registry) CreateOrGet(id domain.RoomID) *Room {
	if room, ok := g.rooms[id]; ok {
		return room
	}
	room := newRoom(id, g.capacity)
	g.rooms[id] = room
	log.Debug().Str("module", "core.registry").Str("room", string(id)).Msg("room created")
	return room
}

// Join adds the connection to the room and returns the updated member list.
// Joining a room the connection is already in replaces its record.
func (g *Registry) Join(id domain.RoomID, conn domain.ConnID, username string) ([]domain.Member, error) {
	room := g.CreateOrGet(id)
	if !room.Has(conn) && room.Full() {
		if room.Size() == 0 {
			delete(g.rooms, id)
		}
		return nil, fmt.Errorf("join %s: %w", id, domain.ErrRoomFull)
	}
	m := room.put(conn, username)
	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("conn", string(conn)).
		Bool("host", m.IsHost).Int("size", room.Size()).Msg("member joined")
	return room.Members(), nil
}

// Leave removes the connection from the room. It returns the remaining room,
// or false when the room no longer exists. Unknown rooms and members are no-ops.
func (g *Registry) Leave(id domain.RoomID, conn domain.ConnID) (*Room, bool) {
	room, ok := g.rooms[id]
	if !ok {
		return nil, false
	}
	if _, removed := room.remove(conn); removed {
		log.Info().Str("module", "core.registry").Str("room", string(id)).Str("conn", string(conn)).
			Int("size", room.Size()).Msg("member left")
	}
	if room.Size() == 0 {
		delete(g.rooms, id)
		log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("room deleted (empty)")
		return nil, false
	}
	return room, true
}

func (g *Registry) Get(id domain.RoomID) (*Room, bool) {
	room, ok := g.rooms[id]
	return room, ok
}

// List returns every room sorted by id.
func (g *Registry) List() []RoomInfo {
	out := make([]RoomInfo, 0, len(g.rooms))
	for id, r := range g.rooms {
		out = append(out, RoomInfo{ID: id, Size: r.Size(), Capacity: r.Capacity})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats returns the number of rooms and the total number of members.
func (g *Registry) Stats() (rooms, members int) {
	for _, r := range g.rooms {
		members += r.Size()
	}
	return len(g.rooms), members
}
