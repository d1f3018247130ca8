package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/cards"
	"github.com/magefree/mage-duel-go/internal/config"
	"github.com/magefree/mage-duel-go/internal/logging"
	"github.com/magefree/mage-duel-go/internal/server"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging, "duel-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting duel server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	catalog, err := cards.LoadOrEmbedded(cfg.Cards.Path)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}
	logger.Info("card catalog loaded", zap.Int("cards", catalog.Len()))

	engine, err := catalog.NewMatch(logger, cfg)
	if err != nil {
		logger.Fatal("failed to start match", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hub := server.NewHub(engine, cfg.Server, logger)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("websocket server listening",
			zap.String("address", cfg.Server.Address),
			zap.Strings("players", cfg.Match.Players),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("websocket server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	logger.Info("duel server stopped")
}
