package app

import (
	"strconv"
	"strings"
)

// DefaultRoomFullMessage is sent with room-full; {max} is replaced by the
// room capacity.
const DefaultRoomFullMessage = "Room is full. A maximum of {max} participants can join."

type BackpressureAction int

const (
	// DropMessage loses the frame and keeps the member.
	DropMessage BackpressureAction = iota
	// KickMember closes the slow connection; the transport then reports the
	// disconnect and the member is cleaned up like any other.
	KickMember
)

type Policy interface {
	// EchoToSender reports whether chat and screen-share broadcasts are also
	// delivered to the member that sent them.
	EchoToSender() bool
	// AnnounceRoomUsers reports whether a joiner also receives room-users.
	AnnounceRoomUsers() bool
	// PinChatUsername reports whether chat-message carries the name
	// registered at join instead of the one in the payload.
	PinChatUsername() bool
	RoomFullMessage(capacity int) string
	OnBackPressure(member *Session) BackpressureAction
}

type SimplePolicy struct {
	Echo     bool
	Announce bool
	Kick     bool
	PinName  bool

	// FullMessage overrides DefaultRoomFullMessage when set.
	FullMessage string
}

func (p SimplePolicy) EchoToSender() bool { return p.Echo }

func (p SimplePolicy) AnnounceRoomUsers() bool { return p.Announce }

func (p SimplePolicy) PinChatUsername() bool { return p.PinName }

func (p SimplePolicy) RoomFullMessage(capacity int) string {
	msg := p.FullMessage
	if msg == "" {
		msg = DefaultRoomFullMessage
	}
	return strings.ReplaceAll(msg, "{max}", strconv.Itoa(capacity))
}

func (p SimplePolicy) OnBackPressure(*Session) BackpressureAction {
	if p.Kick {
		return KickMember
	}
	return DropMessage
}
