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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", ".", "Directory containing config.yaml")
	flag.Parse()

	if err := run(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	cfg, err := LoadConfig(configDir)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	if cfg.Log.Format == "json" {
		gin.SetMode(gin.ReleaseMode)
	}

	game, err := NewGame(cfg, log)
	if err != nil {
		return err
	}
	for _, bc := range cfg.Game.Bots {
		if _, err := game.AddBot(bc); err != nil {
			log.Warn("skipping bot", zap.String("name", bc.Name), zap.Error(err))
		}
	}
	go game.Run()
	defer game.Stop()

	tokens, err := NewTokenIssuer(cfg.Auth, game.SessionID())
	if err != nil {
		return err
	}

	hub := NewHub(game, cfg.Server, log)
	go hub.Run()

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewRouter(hub, tokens, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("client", cfg.Server.ClientDir),
			zap.String("codec", cfg.Server.SnapshotCodec))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
