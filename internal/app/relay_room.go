package app

import (
	"errors"

	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/dkeye/rendezvous/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleJoin adds the connection to a room. A connection already in another
// room leaves it first (with the usual user-left notice). A rejected join
// changes nothing, not even the previous membership.
func (r *Relay) handleJoin(s *Session, msg protocol.JoinRoom) {
	roomID, err := domain.ParseRoomID(string(msg.RoomID))
	if err != nil {
		r.sendError(s, err)
		return
	}
	username := domain.NormalizeUsername(msg.Username)

	if room, ok := r.rooms.Get(roomID); ok && !room.Has(s.ID) && room.Full() {
		r.rejectFull(s, roomID, room.Capacity)
		return
	}
	if s.InRoom() && s.Room != roomID {
		log.Info().Str("module", "app.relay").Str("conn", string(s.ID)).Str("from_room", string(s.Room)).
			Str("to_room", string(roomID)).Msg("implicit leave before join")
		r.leaveRoom(s)
	}

	members, err := r.rooms.Join(roomID, s.ID, username)
	if err != nil {
		if errors.Is(err, domain.ErrRoomFull) {
			r.rejectFull(s, roomID, r.rooms.Capacity())
		} else {
			r.sendError(s, err)
		}
		return
	}
	s.Room = roomID
	s.Username = username

	joined := protocol.UserJoined{ID: s.ID, Username: username, Participants: members}
	for _, m := range members {
		if m.ID == s.ID {
			joined.IsHost = m.IsHost
		}
	}
	room, _ := r.rooms.Get(roomID)
	r.broadcast(room, joined, "")
	if r.policy.AnnounceRoomUsers() {
		r.send(s, protocol.RoomUsers{IDs: room.MemberIDs(s.ID)})
	}
	r.roomsChanged()
	log.Info().Str("module", "app.relay").Str("conn", string(s.ID)).Str("username", username).
		Str("room", string(roomID)).Int("participants", len(members)).Msg("joined room")
}

func (r *Relay) rejectFull(s *Session, roomID domain.RoomID, capacity int) {
	log.Info().Str("module", "app.relay").Str("conn", string(s.ID)).Str("room", string(roomID)).Msg("room full")
	r.obs.RoomFull()
	r.send(s, protocol.RoomFull{Message: r.policy.RoomFullMessage(capacity)})
}

func (r *Relay) handleLeave(s *Session) {
	if !s.InRoom() {
		return
	}
	log.Info().Str("module", "app.relay").Str("conn", string(s.ID)).Str("room", string(s.Room)).Msg("leave")
	r.leaveRoom(s)
}

// leaveRoom removes s from its room and tells the remaining members. Nothing
// is sent when the room was deleted: there is nobody left to tell.
func (r *Relay) leaveRoom(s *Session) {
	if !s.InRoom() {
		return
	}
	roomID := s.Room
	s.Room = ""
	room, ok := r.rooms.Leave(roomID, s.ID)
	if ok {
		r.broadcast(room, protocol.UserLeft{
			ID:           s.ID,
			Username:     s.Username,
			Participants: room.Members(),
		}, "")
	}
	r.roomsChanged()
}
