package app

import (
	"fmt"
	"time"

	"github.com/dkeye/rendezvous/internal/core"
	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/dkeye/rendezvous/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay translates connection events into registry operations and outbound
// sends. It is not safe for concurrent use; Hub serializes calls into it.
type Relay struct {
	rooms    *core.Registry
	sessions *Sessions
	policy   Policy
	obs      Observer
	now      func() time.Time
}

type Option func(*Relay)

func WithObserver(o Observer) Option {
	return func(r *Relay) {
		if o != nil {
			r.obs = o
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

func NewRelay(rooms *core.Registry, policy Policy, opts ...Option) *Relay {
	if policy == nil {
		policy = SimplePolicy{Announce: true}
	}
	r := &Relay{
		rooms:    rooms,
		sessions: NewSessions(),
		policy:   policy,
		obs:      nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Relay) OnConnect(conn core.SignalConnection) {
	sess := r.sessions.Bind(conn)
	r.obs.ConnectionOpened()
	r.send(sess, protocol.Connected{ID: sess.ID})
}

func (r *Relay) OnEvent(id domain.ConnID, in protocol.Inbound) {
	sess, ok := r.sessions.Get(id)
	if !ok {
		log.Warn().Str("module", "app.relay").Str("conn", string(id)).Msg("event from unknown connection")
		return
	}

	switch msg := in.(type) {
	case protocol.JoinRoom:
		r.handleJoin(sess, msg)
	case protocol.LeaveRoom:
		r.handleLeave(sess)
	case protocol.Offer:
		r.forward(sess, msg.Target, protocol.OfferFrom{From: sess.ID, Offer: msg.Offer})
	case protocol.Answer:
		r.forward(sess, msg.Target, protocol.AnswerFrom{From: sess.ID, Answer: msg.Answer})
	case protocol.ICECandidate:
		r.forward(sess, msg.Target, protocol.ICECandidateFrom{From: sess.ID, Candidate: msg.Candidate})
	case protocol.ScreenShareStarted:
		r.toRoomMates(sess, msg.RoomID, protocol.ScreenShareStartedBy{From: sess.ID})
	case protocol.ScreenShareStopped:
		r.toRoomMates(sess, msg.RoomID, protocol.ScreenShareStoppedBy{From: sess.ID})
	case protocol.ChatMessage:
		r.handleChat(sess, msg)
	case protocol.Ping:
		r.send(sess, protocol.Pong{})
	default:
		log.Warn().Str("module", "app.relay").Str("type", fmt.Sprintf("%T", in)).Msg("unhandled event")
	}
}

// OnDisconnect removes the connection from its room, notifying the remaining
// members, and forgets it.
func (r *Relay) OnDisconnect(id domain.ConnID) {
	sess, ok := r.sessions.Get(id)
	if !ok {
		return
	}
	log.Info().Str("module", "app.relay").Str("conn", string(id)).Str("room", string(sess.Room)).Msg("disconnect")
	r.leaveRoom(sess)
	r.sessions.Unbind(id)
	r.obs.ConnectionClosed()
}

// Rooms lists every room for diagnostics.
func (r *Relay) Rooms() []core.RoomInfo { return r.rooms.List() }

// Participants returns the members of a room and its capacity.
func (r *Relay) Participants(id domain.RoomID) ([]domain.Member, int, error) {
	room, ok := r.rooms.Get(id)
	if !ok {
		return nil, 0, fmt.Errorf("participants %s: %w", id, domain.ErrUnknownRoom)
	}
	return room.Members(), room.Capacity, nil
}

func (r *Relay) Stats() (rooms, members int) { return r.rooms.Stats() }

func (r *Relay) Connections() int { return r.sessions.Len() }

func (r *Relay) send(to *Session, msg protocol.Outbound) bool {
	frame, err := protocol.Encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("event", msg.Event()).Msg("encode")
		r.obs.Dropped(msg.Event(), dropEncode)
		return false
	}
	if !r.deliver(to, msg.Event(), frame) {
		return false
	}
	r.obs.Delivered(msg.Event(), 1)
	return true
}

// broadcast sends msg to every member of room except the given id; pass an
// empty id to include everyone.
func (r *Relay) broadcast(room *core.Room, msg protocol.Outbound, except domain.ConnID) int {
	frame, err := protocol.Encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("event", msg.Event()).Msg("encode")
		r.obs.Dropped(msg.Event(), dropEncode)
		return 0
	}
	sent := 0
	for _, m := range room.Members() {
		if m.ID == except {
			continue
		}
		sess, ok := r.sessions.Get(m.ID)
		if !ok {
			continue
		}
		if r.deliver(sess, msg.Event(), frame) {
			sent++
		}
	}
	r.obs.Delivered(msg.Event(), sent)
	log.Debug().Str("module", "app.relay").Str("room", string(room.ID)).Str("event", msg.Event()).Int("sent_to", sent).Msg("broadcast result")
	return sent
}

func (r *Relay) deliver(to *Session, event string, frame []byte) bool {
	err := to.Conn.TrySend(core.Frame(frame))
	if err == nil {
		return true
	}
	r.obs.Dropped(event, dropBackpressure)
	log.Warn().Err(err).Str("module", "app.relay").Str("conn", string(to.ID)).Str("event", event).Msg("send dropped")
	if r.policy.OnBackPressure(to) == KickMember {
		log.Warn().Str("module", "app.relay").Str("conn", string(to.ID)).Msg("kicking slow member")
		to.Conn.Close()
	}
	return false
}

func (r *Relay) sendError(to *Session, err error) {
	r.send(to, protocol.Error{Message: err.Error()})
}

func (r *Relay) roomsChanged() {
	r.obs.RoomsChanged(r.rooms.Stats())
}
