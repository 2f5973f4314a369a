package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/imtaco/live-signal/internal/config"
	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/httputil"
	wsrpc "github.com/imtaco/live-signal/internal/jsonrpc/websocket"
	"github.com/imtaco/live-signal/internal/log"
	"github.com/imtaco/live-signal/internal/otel"
	"github.com/imtaco/live-signal/internal/workflow"
	"github.com/imtaco/live-signal/livestream/control"
	"github.com/imtaco/live-signal/livestream/signal"
	"github.com/imtaco/live-signal/livestream/transport"
)

const drainTimeout = 3 * time.Second

type Config struct {
	App   config.App      `mapstructure:"app"`
	HTTP  httputil.Config `mapstructure:"http"`
	Otel  otel.Config     `mapstructure:"otel"`
	Rooms control.Config  `mapstructure:"rooms"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`
	StatusName     string   `mapstructure:"status_name"`
}

func loadConfig() (*Config, error) {
	return config.Load(&Config{}, func(v *viper.Viper) {
		v.SetDefault("allowed_origins", []string{"http://localhost:5173"})
		v.SetDefault("status_name", "Live Streaming Server")

		config.Setup(v, "app")
		otel.Setup(v, "otel")
		httputil.Setup(v, "http")
		control.Setup(v, "rooms")

		v.SetDefault("http.addr", "0.0.0.0:3001")
	})
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}

	logger, err := log.NewLogger(cfg.App.LogConfigFile)
	if err != nil {
		log.Fatal("Failed to create logger", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	otelShutdown, err := otel.Init(ctx, &cfg.Otel, logger)
	if err != nil {
		logger.Fatal("Failed to initialize OTEL provider", log.Error(err))
	}

	logger.Info("Starting live signal server...")

	connMgr := signal.NewConnManager(logger.Module("ConnMgr"))

	controller, err := control.NewController(&cfg.Rooms, connMgr, logger.Module("RoomCtrl"))
	if err != nil {
		logger.Fatal("Failed to create room controller", log.Error(err))
	}

	hook := signal.NewWSHook(connMgr, controller, logger.Module("WSHook"))
	wsRPCServer := wsrpc.NewServer(
		hook.Hooks(),
		cfg.AllowedOrigins,
		logger.Module("WSRPC"),
	)
	signalServer := signal.NewServer(
		wsRPCServer,
		controller,
		logger.Module("Signal"),
	)

	if err := controller.Start(ctx); err != nil {
		logger.Fatal("Failed to start room controller", log.Error(err))
	}
	if err := signalServer.Open(ctx); err != nil {
		logger.Fatal("Failed to open Signal Server", log.Error(err))
	}

	router := transport.NewRouter(
		&transport.Config{
			StatusName:     cfg.StatusName,
			AllowedOrigins: cfg.AllowedOrigins,
		},
		controller,
		wsRPCServer.HandleWebSocket,
		logger.Module("Router"),
	)
	server := httputil.NewServer(&cfg.HTTP, router.Handler())

	go func() {
		logger.Info("Starting HTTP server", log.String("addr", cfg.HTTP.Addr))
		if err := server.Listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start HTTP server", log.Error(err))
		}
	}()

	cleanup := func(ctx context.Context) {
		// hijacked websocket connections are not closed by Shutdown
		_ = server.Shutdown(ctx)
		connMgr.CloseAll()
		// disconnect cleanup goes through the controller, so let it finish first
		drainCtx, cancel := context.WithTimeout(ctx, drainTimeout)
		if err := hook.Drain(drainCtx); err != nil {
			logger.Warn("Connections still closing", log.Error(err))
		}
		cancel()

		_ = signalServer.Close()
		if err := controller.Stop(); err != nil {
			logger.Error("Error stopping room controller", log.Error(err))
		}
		if err := otelShutdown(ctx); err != nil {
			logger.Error("Failed to shutdown OTEL", log.Error(err))
		}
	}
	workflow.WaitGracefulShutdown(ctx, logger.Module("CleanUp"), cleanup, cfg.App.ShutdownTimeout)
}
