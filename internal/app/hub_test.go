package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/rendezvous/internal/core"
	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/dkeye/rendezvous/internal/protocol"
)

func startHub(t *testing.T, relay *Relay) *Hub {
	t.Helper()
	hub := NewHub(relay, 16)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("hub run: %v", err)
		}
	})
	return hub
}

func TestHubSerializesConcurrentJoins(t *testing.T) {
	relay := NewRelay(core.NewRegistry(8), SimplePolicy{})
	hub := startHub(t, relay)

	const clients = 20
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newFakeConn(fmt.Sprintf("c%d", i))
			if err := hub.Connect(c); err != nil {
				t.Errorf("connect: %v", err)
				return
			}
			if err := hub.Dispatch(c.id, protocol.JoinRoom{RoomID: "r1", Username: "u"}); err != nil {
				t.Errorf("dispatch: %v", err)
			}
		}(i)
	}
	wg.Wait()

	var (
		members  []domain.Member
		capacity int
		qerr     error
	)
	err := hub.Query(context.Background(), func(r *Relay) {
		members, capacity, qerr = r.Participants("r1")
	})
	if err != nil || qerr != nil {
		t.Fatalf("query: %v %v", err, qerr)
	}
	if len(members) != capacity {
		t.Fatalf("members = %d, want %d", len(members), capacity)
	}
	hosts := 0
	for _, m := range members {
		if m.IsHost {
			hosts++
		}
	}
	if hosts != 1 {
		t.Fatalf("hosts = %d", hosts)
	}
}

func TestHubDisconnectCleansUp(t *testing.T) {
	relay := NewRelay(core.NewRegistry(8), SimplePolicy{})
	hub := startHub(t, relay)

	a := newFakeConn("a")
	if err := hub.Connect(a); err != nil {
		t.Fatal(err)
	}
	if err := hub.Dispatch("a", protocol.JoinRoom{RoomID: "r1", Username: "Alice"}); err != nil {
		t.Fatal(err)
	}
	if err := hub.Disconnect("a"); err != nil {
		t.Fatal(err)
	}

	var rooms []core.RoomInfo
	if err := hub.Query(context.Background(), func(r *Relay) { rooms = r.Rooms() }); err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 0 {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func TestHubSurvivesHandlerPanic(t *testing.T) {
	relay := NewRelay(core.NewRegistry(8), SimplePolicy{})
	hub := startHub(t, relay)

	_ = hub.Query(context.Background(), func(*Relay) { panic("boom") })

	var conns int
	if err := hub.Query(context.Background(), func(r *Relay) { conns = r.Connections() }); err != nil {
		t.Fatalf("hub stopped after panic: %v", err)
	}
	if conns != 0 {
		t.Fatalf("conns = %d", conns)
	}
}

func TestHubStopped(t *testing.T) {
	hub := NewHub(NewRelay(core.NewRegistry(8), SimplePolicy{}), 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if err := hub.Disconnect("a"); !errors.Is(err, ErrHubStopped) {
		t.Fatalf("Disconnect err = %v", err)
	}
	if err := hub.Query(context.Background(), func(*Relay) {}); !errors.Is(err, ErrHubStopped) {
		t.Fatalf("Query err = %v", err)
	}
}

func TestHubQueryHonoursContext(t *testing.T) {
	relay := NewRelay(core.NewRegistry(8), SimplePolicy{})
	hub := startHub(t, relay)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = hub.Query(context.Background(), func(*Relay) {
			close(started)
			<-release
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := hub.Query(ctx, func(*Relay) {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}
