package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/rendezvous/internal/core"
	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/dkeye/rendezvous/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrHubStopped = errors.New("hub stopped")

// Hub is the single goroutine that owns the relay and therefore the room
// registry. Transport goroutines and HTTP handlers submit work to it; each
// submission runs to completion before the next one starts.
type Hub struct {
	relay *Relay
	queue chan func(*Relay)
	done  chan struct{}
}

func NewHub(relay *Relay, buffer int) *Hub {
	if buffer < 0 {
		buffer = 0
	}
	return &Hub{
		relay: relay,
		queue: make(chan func(*Relay), buffer),
		done:  make(chan struct{}),
	}
}

// Run processes submissions until ctx is done. It must be called once.
func (h *Hub) Run(ctx context.Context) error {
	log.Info().Str("module", "app.hub").Msg("hub started")
	defer func() {
		close(h.done)
		log.Info().Str("module", "app.hub").Msg("hub stopped")
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-h.queue:
			h.apply(fn)
		}
	}
}

// apply isolates one event: a panic in a handler is logged and the loop goes on.
func (h *Hub) apply(fn func(*Relay)) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("module", "app.hub").Str("panic", fmt.Sprint(rec)).Msg("event handler panicked")
		}
	}()
	fn(h.relay)
}

func (h *Hub) submit(fn func(*Relay)) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.queue <- fn:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Connect(conn core.SignalConnection) error {
	return h.submit(func(r *Relay) { r.OnConnect(conn) })
}

func (h *Hub) Dispatch(id domain.ConnID, in protocol.Inbound) error {
	return h.submit(func(r *Relay) { r.OnEvent(id, in) })
}

func (h *Hub) Disconnect(id domain.ConnID) error {
	return h.submit(func(r *Relay) { r.OnDisconnect(id) })
}

// Query runs fn on the hub goroutine and waits for it. fn must only read.
func (h *Hub) Query(ctx context.Context, fn func(*Relay)) error {
	finished := make(chan struct{})
	err := h.submit(func(r *Relay) {
		defer close(finished)
		fn(r)
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}
