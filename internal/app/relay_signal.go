package app

import (
	"github.com/dkeye/rendezvous/internal/core"
	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/dkeye/rendezvous/internal/protocol"
	"github.com/rs/zerolog/log"
)

// forward delivers a negotiation message to exactly one connection. Unknown
// targets are dropped silently; the sender learns about departed peers from
// user-left.
func (r *Relay) forward(s *Session, target domain.ConnID, msg protocol.Outbound) {
	t, ok := r.sessions.Get(target)
	if !ok || target == s.ID {
		r.obs.Dropped(msg.Event(), dropUnroutable)
		log.Debug().Err(domain.ErrUnroutableTarget).Str("module", "app.relay").Str("from", string(s.ID)).
			Str("target", string(target)).Str("event", msg.Event()).Msg("unicast dropped")
		return
	}
	r.send(t, msg)
}

// toRoomMates broadcasts to the sender's current room. A room id naming any
// other room is ignored so a connection cannot post into rooms it is not in.
func (r *Relay) toRoomMates(s *Session, claimed domain.RoomID, msg protocol.Outbound) {
	room, ok := r.currentRoom(s, claimed, msg.Event())
	if !ok {
		return
	}
	except := s.ID
	if r.policy.EchoToSender() {
		except = ""
	}
	r.broadcast(room, msg, except)
}

func (r *Relay) handleChat(s *Session, msg protocol.ChatMessage) {
	username := msg.Username
	if r.policy.PinChatUsername() || username == "" {
		username = s.Username
	}
	r.toRoomMates(s, msg.RoomID, protocol.ChatBroadcast{
		ID:        s.ID,
		Username:  username,
		Message:   msg.Message,
		Timestamp: protocol.Timestamp(r.now()),
	})
}

func (r *Relay) currentRoom(s *Session, claimed domain.RoomID, event string) (*core.Room, bool) {
	if !s.InRoom() || (claimed != "" && claimed != s.Room) {
		r.obs.Dropped(event, dropNotInRoom)
		log.Debug().Str("module", "app.relay").Str("conn", string(s.ID)).Str("room", string(claimed)).
			Str("event", event).Msg("broadcast outside own room dropped")
		return nil, false
	}
	return r.rooms.Get(s.Room)
}
