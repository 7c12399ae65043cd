package domain

import "errors"

var (
	// ErrRoomFull is returned when a join would exceed the room capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrUnknownRoom is returned by read queries for an absent room.
	// Mutations on an absent room are no-ops instead.
	ErrUnknownRoom = errors.New("room not found")
	// ErrUnroutableTarget marks a unicast whose target is not connected.
	// It is never surfaced to the sender.
	ErrUnroutableTarget = errors.New("target not connected")
)
