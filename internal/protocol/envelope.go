// Package protocol defines the signaling wire format: every WebSocket text
// frame is a JSON envelope {"event": name, "data": payload}. Inbound and
// outbound messages are closed sets of Go types; Decode and Encode are the
// only places where event names are matched as strings.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrBadEnvelope  = errors.New("bad envelope")
	ErrUnknownEvent = errors.New("unknown event")
	ErrBadPayload   = errors.New("bad payload")
)

const (
	EventJoinRoom           = "join-room"
	EventLeaveRoom          = "leave-room"
	EventOffer              = "offer"
	EventAnswer             = "answer"
	EventICECandidate       = "ice-candidate"
	EventScreenShareStarted = "screen-share-started"
	EventScreenShareStopped = "screen-share-stopped"
	EventChatMessage        = "chat-message"
	EventPing               = "ping"

	EventConnected  = "connected"
	EventRoomFull   = "room-full"
	EventUserJoined = "user-joined"
	EventRoomUsers  = "room-users"
	EventUserLeft   = "user-left"
	EventPong       = "pong"
	EventError      = "error"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode renders an outbound message as one wire frame.
func Encode(m Outbound) ([]byte, error) {
	env := envelope{Event: m.Event()}
	if p := m.payload(); p != nil {
		data, err := marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", env.Event, err)
		}
		env.Data = data
	}
	return marshal(env)
}

// marshal leaves <, > and & unescaped so chat text and forwarded payloads
// reach peers as sent.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses one wire frame into an inbound message.
func Decode(frame []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("%w: missing event", ErrBadEnvelope)
	}

	var (
		in  Inbound
		err error
	)
	switch env.Event {
	case EventJoinRoom:
		in, err = decodeJoin(env.Data)
	case EventLeaveRoom:
		in = LeaveRoom{}
	case EventOffer:
		var p struct {
			Target string          `json:"target"`
			Offer  json.RawMessage `json:"offer"`
		}
		err = unmarshalData(env.Data, &p)
		in = Offer{Target: connID(p.Target), Offer: p.Offer}
	case EventAnswer:
		var p struct {
			Target string          `json:"target"`
			Answer json.RawMessage `json:"answer"`
		}
		err = unmarshalData(env.Data, &p)
		in = Answer{Target: connID(p.Target), Answer: p.Answer}
	case EventICECandidate:
		var p struct {
			Target    string          `json:"target"`
			Candidate json.RawMessage `json:"candidate"`
		}
		err = unmarshalData(env.Data, &p)
		in = ICECandidate{Target: connID(p.Target), Candidate: p.Candidate}
	case EventScreenShareStarted:
		var room string
		err = unmarshalOptional(env.Data, &room)
		in = ScreenShareStarted{RoomID: roomID(room)}
	case EventScreenShareStopped:
		var room string
		err = unmarshalOptional(env.Data, &room)
		in = ScreenShareStopped{RoomID: roomID(room)}
	case EventChatMessage:
		var p struct {
			RoomID   string `json:"roomId"`
			Username string `json:"username"`
			Message  string `json:"message"`
		}
		err = unmarshalData(env.Data, &p)
		in = ChatMessage{RoomID: roomID(p.RoomID), Username: p.Username, Message: p.Message}
	case EventPing:
		in = Ping{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", env.Event, err)
	}
	return in, nil
}

// decodeJoin accepts positional arguments ["room", "name"] as well as
// {"roomId": ..., "username": ...}.
func decodeJoin(data json.RawMessage) (Inbound, error) {
	var args []string
	if err := json.Unmarshal(data, &args); err == nil {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: missing room id", ErrBadPayload)
		}
		j := JoinRoom{RoomID: roomID(args[0])}
		if len(args) > 1 {
			j.Username = args[1]
		}
		return j, nil
	}
	var p struct {
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
	}
	if err := unmarshalData(data, &p); err != nil {
		return nil, err
	}
	return JoinRoom{RoomID: roomID(p.RoomID), Username: p.Username}, nil
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrBadPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

func unmarshalOptional(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return unmarshalData(data, v)
}
