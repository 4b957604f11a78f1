// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/danielhkuo/pollchain/cliparse"
	"github.com/danielhkuo/pollchain/db"
	"github.com/danielhkuo/pollchain/dispatch"
	"github.com/danielhkuo/pollchain/events"
	"github.com/danielhkuo/pollchain/ledger"
	"github.com/danielhkuo/pollchain/ledger/kvstore"
	"github.com/danielhkuo/pollchain/ledger/sqlstore"
	"github.com/danielhkuo/pollchain/middleware"
	"github.com/danielhkuo/pollchain/router"
)

func main() {
	var err error

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("ledger store unavailable", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Ledger store ready", "type", cfg.DatabaseType)

	publisher, err := openPublisher(cfg)
	if err != nil {
		slog.Error("event publisher unavailable", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	d := dispatch.New(store, publisher, nil)

	// Create router
	mux := router.NewRouter(d, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

func setupLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func openStore(cfg cliparse.Config) (ledger.Store, error) {
	if cfg.DatabaseType == db.TypeMemory {
		return kvstore.NewMemory(), nil
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		conn.Close()
		return nil, err
	}
	return sqlstore.New(conn), nil
}

func openPublisher(cfg cliparse.Config) (events.Publisher, error) {
	if cfg.RedisURL == "" {
		return events.NewLogPublisher(slog.Default()), nil
	}

	p, err := events.NewRedisPublisher(cfg.RedisURL, cfg.EventChannel)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}
	slog.Info("Publishing events to redis", "channel", p.Channel())
	return p, nil
}
