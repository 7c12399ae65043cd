package http

import (
	"context"
	"os"

	"github.com/dkeye/rendezvous/internal/adapters/signal"
	"github.com/dkeye/rendezvous/internal/app"
	"github.com/dkeye/rendezvous/internal/config"
	"github.com/dkeye/rendezvous/internal/metrics"
	diag "github.com/dkeye/rendezvous/internal/transport/http"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const clientTokenKey = "client_token"

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware keeps a per-browser token in the signed session
// cookie so reconnects from one browser can be correlated in logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(clientTokenKey).(string)
		if token == "" {
			token = genClientToken()
			session.Set(clientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, hub *app.Hub, gatherer prometheus.Gatherer) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions("RendezvousSession", store))
	r.Use(ClientTokenMiddleware())

	if info, err := os.Stat(cfg.StaticPath); err == nil && info.IsDir() {
		r.Static("/static", cfg.StaticPath)
		r.StaticFile("/", cfg.StaticPath+"/index.html")
		log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("serving static files")
	}

	ctrl := signal.NewSignalWSController(hub, signal.Options{
		ReadLimit:    cfg.ReadLimit,
		PingPeriod:   cfg.PingPeriod,
		PongWait:     cfg.PongWait,
		WriteWait:    cfg.WriteWait,
		SendBuffer:   cfg.SendBuffer,
		JoinLimit:    cfg.JoinLimit,
		JoinInterval: cfg.JoinInterval,
	})
	wsHandler := func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client_token", c.GetString(clientTokenKey)).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	}
	r.GET("/ws", wsHandler)

	d := diag.NewDiagnostics(hub)
	r.GET("/health", d.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))

	api := r.Group("/api")
	api.GET("/ws/signal", wsHandler)
	api.GET("/rooms", d.ListRooms)
	api.GET("/rooms/:roomId/participants", d.RoomParticipants)

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
