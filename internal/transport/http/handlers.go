// Package http holds the read-only diagnostic endpoints. Every handler reads
// relay state on the hub goroutine through Hub.Query.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/dkeye/rendezvous/internal/app"
	"github.com/dkeye/rendezvous/internal/core"
	"github.com/dkeye/rendezvous/internal/domain"
	"github.com/dkeye/rendezvous/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ParticipantsResponse struct {
	Participants    []domain.Member `json:"participants"`
	MaxParticipants int             `json:"maxParticipants"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Rooms      int    `json:"rooms"`
	TotalUsers int    `json:"totalUsers"`
}

type Diagnostics struct {
	Hub *app.Hub
	Now func() time.Time
}

func NewDiagnostics(hub *app.Hub) *Diagnostics {
	return &Diagnostics{Hub: hub, Now: time.Now}
}

func (d *Diagnostics) ListRooms(c *gin.Context) {
	var rooms []core.RoomInfo
	if err := d.Hub.Query(c.Request.Context(), func(r *app.Relay) { rooms = r.Rooms() }); err != nil {
		d.unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (d *Diagnostics) RoomParticipants(c *gin.Context) {
	id := domain.RoomID(c.Param("roomId"))
	var (
		resp ParticipantsResponse
		qerr error
	)
	err := d.Hub.Query(c.Request.Context(), func(r *app.Relay) {
		resp.Participants, resp.MaxParticipants, qerr = r.Participants(id)
	})
	if err != nil {
		d.unavailable(c, err)
		return
	}
	if errors.Is(qerr, domain.ErrUnknownRoom) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (d *Diagnostics) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Timestamp: protocol.Timestamp(d.Now())}
	if err := d.Hub.Query(c.Request.Context(), func(r *app.Relay) {
		resp.Rooms, resp.TotalUsers = r.Stats()
	}); err != nil {
		d.unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (d *Diagnostics) unavailable(c *gin.Context, err error) {
	log.Error().Err(err).Str("module", "transport.http").Str("path", c.FullPath()).Msg("hub query failed")
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable"})
}
