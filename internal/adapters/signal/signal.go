package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/rendezvous/internal/app"
	"github.com/dkeye/rendezvous/internal/core"
	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// Options tune the transport. Zero values fall back to the defaults below.
type Options struct {
	ReadLimit    int64
	PingPeriod   time.Duration
	PongWait     time.Duration
	WriteWait    time.Duration
	SendBuffer   int
	JoinLimit    int
	JoinInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 64 * 1024
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	if o.JoinLimit <= 0 {
		o.JoinLimit = 10
	}
	if o.JoinInterval <= 0 {
		o.JoinInterval = 10 * time.Second
	}
	return o
}

type SignalWSController struct {
	Hub   *app.Hub
	opts  Options
	joins *RoomRateLimiter
}

func NewSignalWSController(hub *app.Hub, opts Options) *SignalWSController {
	opts = opts.withDefaults()
	return &SignalWSController{
		Hub:   hub,
		opts:  opts,
		joins: NewRoomRateLimiter(opts.JoinLimit, opts.JoinInterval),
	}
}

// WsSignalConn implements core.SignalConnection over a websocket. Frames are
// queued on send and written by writePump.
type WsSignalConn struct {
	id   domain.ConnID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(id domain.ConnID, ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		id:   id,
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) ID() domain.ConnID { return c.id }

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

// Close stops accepting frames. writePump flushes a close frame and releases
// the socket.
func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	id := domain.NewConnID()
	conn := newWsSignalConn(id, ws, ctl.opts.SendBuffer)
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("client_token", c.GetString("client_token")).
		Str("remote", c.ClientIP()).Msg("new WS connection")

	if err := ctl.Hub.Connect(conn); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("hub connect")
		_ = ws.Close()
		return
	}

	go ctl.writePump(ctx, conn)
	go ctl.readPump(conn)
}
