package domain

import "errors"

type RoomID string

var ErrRoomIDEmpty = errors.New("room id empty")

// ParseRoomID accepts a client supplied room identifier. Room ids are opaque
// and kept byte for byte; only the empty id is rejected.
func ParseRoomID(raw string) (RoomID, error) {
	if raw == "" {
		return "", ErrRoomIDEmpty
	}
	return RoomID(raw), nil
}
