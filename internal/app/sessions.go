package app

import (
	"github.com/dkeye/rendezvous/internal/core"
	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/rs/zerolog/log"
)

// Session is the relay's view of one connection. Room caches the room the
// connection is in and always agrees with the registry.
type Session struct {
	ID       domain.ConnID
	Conn     core.SignalConnection
	Username string
	Room     domain.RoomID
}

func (s *Session) InRoom() bool { return s.Room != "" }

// Sessions tracks live connections by id. Owned by the hub goroutine.
type Sessions struct {
	byID map[domain.ConnID]*Session
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[domain.ConnID]*Session)}
}

func (s *Sessions) Bind(conn core.SignalConnection) *Session {
	sess := &Session{ID: conn.ID(), Conn: conn}
	s.byID[sess.ID] = sess
	log.Info().Str("module", "app.sessions").Str("conn", string(sess.ID)).Msg("bound connection")
	return sess
}

func (s *Sessions) Get(id domain.ConnID) (*Session, bool) {
	sess, ok := s.byID[id]
	return sess, ok
}

func (s *Sessions) Unbind(id domain.ConnID) {
	delete(s.byID, id)
	log.Info().Str("module", "app.sessions").Str("conn", string(id)).Msg("unbound connection")
}

func (s *Sessions) Len() int { return len(s.byID) }
