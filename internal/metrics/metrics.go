// Package metrics exposes relay activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements app.Observer.
type Metrics struct {
	connections prometheus.Gauge
	rooms       prometheus.Gauge
	members     prometheus.Gauge
	delivered   *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	roomFull    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rendezvous_ws_connections",
			Help: "Current number of signaling connections.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rendezvous_rooms",
			Help: "Current number of non-empty rooms.",
		}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rendezvous_room_members",
			Help: "Current number of connections that are in a room.",
		}),
		delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rendezvous_messages_delivered_total",
				Help: "Outbound messages handed to connections, by event.",
			},
			[]string{"event"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rendezvous_messages_dropped_total",
				Help: "Messages that were not delivered, by event and reason.",
			},
			[]string{"event", "reason"},
		),
		roomFull: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rendezvous_room_full_total",
			Help: "Join attempts rejected because the room was at capacity.",
		}),
	}
	reg.MustRegister(m.connections, m.rooms, m.members, m.delivered, m.dropped, m.roomFull)
	return m
}

// Handler exposes the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) ConnectionOpened() { m.connections.Inc() }

func (m *Metrics) ConnectionClosed() { m.connections.Dec() }

func (m *Metrics) RoomsChanged(rooms, members int) {
	m.rooms.Set(float64(rooms))
	m.members.Set(float64(members))
}

func (m *Metrics) Delivered(event string, n int) {
	if n > 0 {
		m.delivered.WithLabelValues(event).Add(float64(n))
	}
}

func (m *Metrics) Dropped(event, reason string) {
	m.dropped.WithLabelValues(event, reason).Inc()
}

func (m *Metrics) RoomFull() { m.roomFull.Inc() }
