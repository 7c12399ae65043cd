package core

import "github.com/dkeye/rendezvous/internal/domain"

// Room is a named group of connections. Members are kept in join order and
// are unique by connection id.
type Room struct {
	ID       domain.RoomID
	Capacity int

	members []domain.Member
	index   map[domain.ConnID]int
}

func newRoom(id domain.RoomID, capacity int) *Room {
	return &Room{
		ID:       id,
		Capacity: capacity,
		index:    make(map[domain.ConnID]int),
	}
}

func (r *Room) Size() int { return len(r.members) }

func (r *Room) Full() bool { return len(r.members) >= r.Capacity }

func (r *Room) Has(id domain.ConnID) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Room) Member(id domain.ConnID) (domain.Member, bool) {
	i, ok := r.index[id]
	if !ok {
		return domain.Member{}, false
	}
	return r.members[i], true
}

// Members returns a copy, safe to hand to encoders after the event returns.
func (r *Room) Members() []domain.Member {
	out := make([]domain.Member, len(r.members))
	copy(out, r.members)
	return out
}

// MemberIDs returns the ids of all members except the given one.
func (r *Room) MemberIDs(except domain.ConnID) []domain.ConnID {
	out := make([]domain.ConnID, 0, len(r.members))
	for _, m := range r.members {
		if m.ID != except {
			out = append(out, m.ID)
		}
	}
	return out
}

// put inserts or replaces a record keyed by connection id. A replaced record
// keeps its position and host flag.
func (r *Room) put(id domain.ConnID, username string) domain.Member {
	if i, ok := r.index[id]; ok {
		r.members[i].Username = username
		return r.members[i]
	}
	m := domain.NewMember(id, username, len(r.members) == 0)
	r.index[id] = len(r.members)
	r.members = append(r.members, m)
	return m
}

func (r *Room) remove(id domain.ConnID) (domain.Member, bool) {
	i, ok := r.index[id]
	if !ok {
		return domain.Member{}, false
	}
	m := r.members[i]
	r.members = append(r.members[:i], r.members[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.members); j++ {
		r.index[r.members[j].ID] = j
	}
	return m, true
}
