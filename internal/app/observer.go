package app

// Observer receives relay events for instrumentation. Calls happen on the hub
// goroutine and must not block.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed()
	RoomsChanged(rooms, members int)
	Delivered(event string, n int)
	Dropped(event, reason string)
	RoomFull()
}

const (
	dropBackpressure = "backpressure"
	dropUnroutable   = "unroutable"
	dropNotInRoom    = "not_in_room"
	dropEncode       = "encode"
)

type nopObserver struct{}

func (nopObserver) ConnectionOpened()      {}
func (nopObserver) ConnectionClosed()      {}
func (nopObserver) RoomsChanged(int, int)  {}
func (nopObserver) Delivered(string, int)  {}
func (nopObserver) Dropped(string, string) {}
func (nopObserver) RoomFull()              {}
