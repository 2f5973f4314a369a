package transport

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/imtaco/live-signal/internal/log"
	"github.com/imtaco/live-signal/livestream"
)

type Config struct {
	// StatusName is reported by the status endpoint.
	StatusName     string
	AllowedOrigins []string
}

// Router serves the status endpoints and mounts the websocket handler.
type Router struct {
	cfg        *Config
	controller livestream.RoomController
	wsHandler  http.HandlerFunc
	clock      clockwork.Clock
	engine     *gin.Engine
	logger     *log.Logger
}

func NewRouter(
	cfg *Config,
	controller livestream.RoomController,
	wsHandler http.HandlerFunc,
	logger *log.Logger,
) *Router {
	return newRouterWithClock(cfg, controller, wsHandler, clockwork.NewRealClock(), logger)
}

func newRouterWithClock(
	cfg *Config,
	controller livestream.RoomController,
	wsHandler http.HandlerFunc,
	clock clockwork.Clock,
	logger *log.Logger,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("livestream"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
	}))

	r := &Router{
		cfg:        cfg,
		controller: controller,
		wsHandler:  wsHandler,
		clock:      clock,
		engine:     engine,
		logger:     logger,
	}

	r.setupRoutes()
	return r
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func (r *Router) setupRoutes() {
	r.engine.GET("/", r.status)
	r.engine.GET("/health", r.healthCheck)
	r.engine.GET("/ws", gin.WrapF(r.wsHandler))
}

func (r *Router) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      r.cfg.StatusName,
		"activeRooms": r.controller.RoomCount(),
		"timestamp":   r.clock.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": r.clock.Now().Unix(),
	})
}
