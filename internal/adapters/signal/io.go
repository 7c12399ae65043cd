package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/rendezvous/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			c.Close()
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(ctl.opts.WriteWait))
			return
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes frames and hands them to the hub. On exit it reports the
// disconnect, which removes the connection from its room.
func (ctl *SignalWSController) readPump(c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
		c.Close()
		ctl.joins.Forget(c.id)
		if err := ctl.Hub.Disconnect(c.id); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("disconnect not delivered")
		}
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		if mt != websocket.TextMessage {
			ctl.replyError(c, "text_frames_only")
			continue
		}
		if err := ctl.handleFrame(c, data); err != nil {
			return
		}
	}
}

// handleFrame returns an error only when the hub is gone.
func (ctl *SignalWSController) handleFrame(c *WsSignalConn, data []byte) error {
	in, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad frame")
		if errors.Is(err, protocol.ErrUnknownEvent) {
			ctl.replyError(c, "unknown_event")
		} else {
			ctl.replyError(c, "bad_payload")
		}
		return nil
	}
	if _, ok := in.(protocol.JoinRoom); ok && !ctl.joins.Allow(c.id) {
		log.Warn().Str("module", "signal").Str("conn", string(c.id)).Msg("join rate limited")
		ctl.replyError(c, "rate_limited")
		return nil
	}
	return ctl.Hub.Dispatch(c.id, in)
}
