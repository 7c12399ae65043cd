package protocol

import (
	"encoding/json"
	"time"

	"github.com/dkeye/rendezvous/internal/domain"
)

// TimestampLayout matches JavaScript's Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Outbound is a server to client message.
type Outbound interface {
	Event() string
	payload() any
}

type Connected struct {
	ID domain.ConnID `json:"id"`
}

type RoomFull struct {
	Message string
}

type UserJoined struct {
	ID           domain.ConnID   `json:"id"`
	Username     string          `json:"username"`
	IsHost       bool            `json:"isHost"`
	Participants []domain.Member `json:"participants"`
}

type RoomUsers struct {
	IDs []domain.ConnID
}

type UserLeft struct {
	ID           domain.ConnID   `json:"id"`
	Username     string          `json:"username"`
	Participants []domain.Member `json:"participants"`
}

type OfferFrom struct {
	From  domain.ConnID   `json:"from"`
	Offer json.RawMessage `json:"offer"`
}

type AnswerFrom struct {
	From   domain.ConnID   `json:"from"`
	Answer json.RawMessage `json:"answer"`
}

type ICECandidateFrom struct {
	From      domain.ConnID   `json:"from"`
	Candidate json.RawMessage `json:"candidate"`
}

type ScreenShareStartedBy struct {
	From domain.ConnID
}

type ScreenShareStoppedBy struct {
	From domain.ConnID
}

type ChatBroadcast struct {
	ID        domain.ConnID `json:"id"`
	Username  string        `json:"username"`
	Message   string        `json:"message"`
	Timestamp string        `json:"timestamp"`
}

type Pong struct{}

type Error struct {
	Message string `json:"message"`
}

func (Connected) Event() string            { return EventConnected }
func (RoomFull) Event() string             { return EventRoomFull }
func (UserJoined) Event() string           { return EventUserJoined }
func (RoomUsers) Event() string            { return EventRoomUsers }
func (UserLeft) Event() string             { return EventUserLeft }
func (OfferFrom) Event() string            { return EventOffer }
func (AnswerFrom) Event() string           { return EventAnswer }
func (ICECandidateFrom) Event() string     { return EventICECandidate }
func (ScreenShareStartedBy) Event() string { return EventScreenShareStarted }
func (ScreenShareStoppedBy) Event() string { return EventScreenShareStopped }
func (ChatBroadcast) Event() string        { return EventChatMessage }
func (Pong) Event() string                 { return EventPong }
func (Error) Event() string                { return EventError }

func (m Connected) payload() any  { return m }
func (m RoomFull) payload() any   { return m.Message }
func (m UserJoined) payload() any { return m }
func (m RoomUsers) payload() any {
	if m.IDs == nil {
		return []domain.ConnID{}
	}
	return m.IDs
}
func (m UserLeft) payload() any             { return m }
func (m OfferFrom) payload() any            { return m }
func (m AnswerFrom) payload() any           { return m }
func (m ICECandidateFrom) payload() any     { return m }
func (m ScreenShareStartedBy) payload() any { return m.From }
func (m ScreenShareStoppedBy) payload() any { return m.From }
func (m ChatBroadcast) payload() any        { return m }
func (Pong) payload() any                   { return nil }
func (m Error) payload() any                { return m }
