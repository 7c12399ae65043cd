package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/rendezvous/internal/core"
	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/dkeye/rendezvous/internal/protocol"
)

var errFakeFull = errors.New("fake buffer full")

type wireMsg struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// fakeConn records every frame sent to it.
type fakeConn struct {
	id domain.ConnID

	mu     sync.Mutex
	frames []wireMsg
	full   bool
	closed bool
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: domain.ConnID(id)} }

func (c *fakeConn) ID() domain.ConnID { return c.id }

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full || c.closed {
		return errFakeFull
	}
	var m wireMsg
	if err := json.Unmarshal(f, &m); err != nil {
		return err
	}
	c.frames = append(c.frames, m)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// drain returns and forgets everything received so far.
func (c *fakeConn) drain() []wireMsg {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.frames
	c.frames = nil
	return out
}

func (c *fakeConn) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.frames))
	for _, m := range c.frames {
		out = append(out, m.Event)
	}
	return out
}

// only asserts exactly one pending frame with the given event and decodes it.
func (c *fakeConn) only(t *testing.T, event string, v any) {
	t.Helper()
	got := c.drain()
	if len(got) != 1 || got[0].Event != event {
		evs := make([]string, 0, len(got))
		for _, m := range got {
			evs = append(evs, m.Event)
		}
		t.Fatalf("%s received %v, want exactly [%s]", c.id, evs, event)
	}
	if v != nil {
		if err := json.Unmarshal(got[0].Data, v); err != nil {
			t.Fatalf("%s: decode %s: %v", c.id, event, err)
		}
	}
}

func (c *fakeConn) none(t *testing.T) {
	t.Helper()
	if got := c.events(); len(got) != 0 {
		t.Fatalf("%s received %v, want nothing", c.id, got)
	}
}

type testRelay struct {
	*Relay
	conns map[string]*fakeConn
}

func newTestRelay(capacity int, policy Policy, opts ...Option) *testRelay {
	return &testRelay{
		Relay: NewRelay(core.NewRegistry(capacity), policy, opts...),
		conns: make(map[string]*fakeConn),
	}
}

// connect opens a connection and discards its connected greeting.
func (tr *testRelay) connect(id string) *fakeConn {
	c := newFakeConn(id)
	tr.conns[id] = c
	tr.OnConnect(c)
	c.drain()
	return c
}

func (tr *testRelay) join(c *fakeConn, room, name string) {
	tr.OnEvent(c.id, protocol.JoinRoom{RoomID: domain.RoomID(room), Username: name})
}

func (tr *testRelay) drainAll() {
	for _, c := range tr.conns {
		c.drain()
	}
}

type joinedPayload struct {
	ID           domain.ConnID   `json:"id"`
	Username     string          `json:"username"`
	IsHost       bool            `json:"isHost"`
	Participants []domain.Member `json:"participants"`
}

type leftPayload struct {
	ID           domain.ConnID   `json:"id"`
	Username     string          `json:"username"`
	Participants []domain.Member `json:"participants"`
}
