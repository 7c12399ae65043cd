package core

import "github.com/dkeye/rendezvous/internal/domain"

//go:generate mockgen -destination=mocks/signal_connection.go -package=mocks github.com/dkeye/rendezvous/internal/core SignalConnection

// Frame is one encoded outbound message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend must never block: a full buffer returns an error and the frame is lost.
type SignalConnection interface {
	ID() domain.ConnID
	TrySend(Frame) error
	Close()
}
