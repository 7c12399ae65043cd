package protocol

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/rendezvous/internal/domain"
)

func TestDecodeJoinRoomForms(t *testing.T) {
	for _, frame := range []string{
		`{"event":"join-room","data":["r1","Alice"]}`,
		`{"event":"join-room","data":{"roomId":"r1","username":"Alice"}}`,
	} {
		in, err := Decode([]byte(frame))
		if err != nil {
			t.Fatalf("Decode(%s): %v", frame, err)
		}
		j, ok := in.(JoinRoom)
		if !ok || j.RoomID != "r1" || j.Username != "Alice" {
			t.Fatalf("Decode(%s) = %#v", frame, in)
		}
	}

	in, err := Decode([]byte(`{"event":"join-room","data":["r1"]}`))
	if err != nil {
		t.Fatalf("room only: %v", err)
	}
	if j := in.(JoinRoom); j.Username != "" {
		t.Fatalf("username = %q", j.Username)
	}

	if _, err := Decode([]byte(`{"event":"join-room","data":[]}`)); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("empty args err = %v", err)
	}
}

func TestDecodeKeepsNegotiationPayloadOpaque(t *testing.T) {
	frame := `{"event":"offer","data":{"target":"b","offer":{"type":"offer","sdp":"v=0\r\n","x":[1,2]}}}`
	in, err := Decode([]byte(frame))
	if err != nil {
		t.Fatal(err)
	}
	o, ok := in.(Offer)
	if !ok || o.Target != "b" {
		t.Fatalf("Decode = %#v", in)
	}
	if string(o.Offer) != `{"type":"offer","sdp":"v=0\r\n","x":[1,2]}` {
		t.Fatalf("payload rewritten: %s", o.Offer)
	}

	in, err = Decode([]byte(`{"event":"ice-candidate","data":{"target":"a","candidate":null}}`))
	if err != nil {
		t.Fatal(err)
	}
	if c := in.(ICECandidate); c.Target != "a" || string(c.Candidate) != "null" {
		t.Fatalf("candidate = %#v", c)
	}

	in, err = Decode([]byte(`{"event":"answer","data":{"target":"a","answer":"opaque"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if a := in.(Answer); string(a.Answer) != `"opaque"` {
		t.Fatalf("answer = %s", a.Answer)
	}
}

func TestDecodeOtherEvents(t *testing.T) {
	cases := []struct {
		frame string
		want  Inbound
	}{
		{`{"event":"leave-room"}`, LeaveRoom{}},
		{`{"event":"screen-share-started","data":"r1"}`, ScreenShareStarted{RoomID: "r1"}},
		{`{"event":"screen-share-stopped"}`, ScreenShareStopped{}},
		{
			`{"event":"chat-message","data":{"roomId":"r1","username":"A","message":"hi"}}`,
			ChatMessage{RoomID: "r1", Username: "A", Message: "hi"},
		},
		{`{"event":"ping"}`, Ping{}},
	}
	for _, tc := range cases {
		got, err := Decode([]byte(tc.frame))
		if err != nil {
			t.Fatalf("Decode(%s): %v", tc.frame, err)
		}
		if got != tc.want {
			t.Fatalf("Decode(%s) = %#v, want %#v", tc.frame, got, tc.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		frame string
		want  error
	}{
		{`not json`, ErrBadEnvelope},
		{`{"data":1}`, ErrBadEnvelope},
		{`{"event":"teleport"}`, ErrUnknownEvent},
		{`{"event":"offer"}`, ErrBadPayload},
		{`{"event":"chat-message","data":5}`, ErrBadPayload},
	}
	for _, tc := range cases {
		if _, err := Decode([]byte(tc.frame)); !errors.Is(err, tc.want) {
			t.Fatalf("Decode(%s) err = %v, want %v", tc.frame, err, tc.want)
		}
	}
}

func TestEncodeWireShapes(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 5_000_000, time.FixedZone("KST", 9*3600))
	cases := []struct {
		msg  Outbound
		want string
	}{
		{RoomFull{Message: "full"}, `{"event":"room-full","data":"full"}`},
		{
			UserJoined{ID: "a", Username: "Alice", IsHost: true, Participants: []domain.Member{{ID: "a", Username: "Alice", IsHost: true}}},
			`{"event":"user-joined","data":{"id":"a","username":"Alice","isHost":true,"participants":[{"id":"a","username":"Alice","isHost":true}]}}`,
		},
		{RoomUsers{}, `{"event":"room-users","data":[]}`},
		{RoomUsers{IDs: []domain.ConnID{"b", "c"}}, `{"event":"room-users","data":["b","c"]}`},
		{
			UserLeft{ID: "b", Username: "Bob", Participants: []domain.Member{}},
			`{"event":"user-left","data":{"id":"b","username":"Bob","participants":[]}}`,
		},
		{OfferFrom{From: "b", Offer: json.RawMessage(`{"sdp":"x"}`)}, `{"event":"offer","data":{"from":"b","offer":{"sdp":"x"}}}`},
		{AnswerFrom{From: "a", Answer: json.RawMessage(`1`)}, `{"event":"answer","data":{"from":"a","answer":1}}`},
		{ICECandidateFrom{From: "a", Candidate: json.RawMessage(`{}`)}, `{"event":"ice-candidate","data":{"from":"a","candidate":{}}}`},
		{ScreenShareStartedBy{From: "a"}, `{"event":"screen-share-started","data":"a"}`},
		{ScreenShareStoppedBy{From: "a"}, `{"event":"screen-share-stopped","data":"a"}`},
		{
			ChatBroadcast{ID: "a", Username: "Alice", Message: "hi", Timestamp: Timestamp(ts)},
			`{"event":"chat-message","data":{"id":"a","username":"Alice","message":"hi","timestamp":"2024-03-01T00:30:00.005Z"}}`,
		},
		{Pong{}, `{"event":"pong"}`},
		{Connected{ID: "a"}, `{"event":"connected","data":{"id":"a"}}`},
		{Error{Message: "bad_payload"}, `{"event":"error","data":{"message":"bad_payload"}}`},
	}
	for _, tc := range cases {
		got, err := Encode(tc.msg)
		if err != nil {
			t.Fatalf("Encode(%#v): %v", tc.msg, err)
		}
		if string(got) != tc.want {
			t.Fatalf("Encode(%T)\n got %s\nwant %s", tc.msg, got, tc.want)
		}
	}
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	got, err := Encode(ChatBroadcast{ID: "a", Username: "A&B", Message: "<3", Timestamp: "t"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"event":"chat-message","data":{"id":"a","username":"A&B","message":"<3","timestamp":"t"}}`
	if string(got) != want {
		t.Fatalf("got %s", got)
	}
}
