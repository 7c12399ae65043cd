package signal

import (
	"github.com/dkeye/rendezvous/internal/protocol"
	"github.com/rs/zerolog/log"
)

// replyError answers a frame that never reached the hub.
func (ctl *SignalWSController) replyError(c *WsSignalConn, message string) {
	frame, err := protocol.Encode(protocol.Error{Message: message})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode error reply")
		return
	}
	_ = c.TrySend(frame)
}
