package protocol

import (
	"encoding/json"

	"github.com/dkeye/rendezvous/internal/domain"
)

// Inbound is a client to server message. The set is closed: only the types
// in this file implement it.
type Inbound interface {
	inbound()
}

type JoinRoom struct {
	RoomID   domain.RoomID
	Username string
}

type LeaveRoom struct{}

// Offer, Answer and ICECandidate carry opaque negotiation payloads that are
// forwarded without inspection.
type Offer struct {
	Target domain.ConnID
	Offer  json.RawMessage
}

type Answer struct {
	Target domain.ConnID
	Answer json.RawMessage
}

type ICECandidate struct {
	Target    domain.ConnID
	Candidate json.RawMessage
}

type ScreenShareStarted struct {
	RoomID domain.RoomID
}

type ScreenShareStopped struct {
	RoomID domain.RoomID
}

type ChatMessage struct {
	RoomID   domain.RoomID
	Username string
	Message  string
}

type Ping struct{}

func (JoinRoom) inbound()           {}
func (LeaveRoom) inbound()          {}
func (Offer) inbound()              {}
func (Answer) inbound()             {}
func (ICECandidate) inbound()       {}
func (ScreenShareStarted) inbound() {}
func (ScreenShareStopped) inbound() {}
func (ChatMessage) inbound()        {}
func (Ping) inbound()               {}

func connID(s string) domain.ConnID { return domain.ConnID(s) }
func roomID(s string) domain.RoomID { return domain.RoomID(s) }
