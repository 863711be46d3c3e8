package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"badam-satti-server/api"
	"badam-satti-server/config"
	"badam-satti-server/game"
	"badam-satti-server/loghandler"
	"badam-satti-server/registry"
	"badam-satti-server/storage"
	"badam-satti-server/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using environment variables")
	}

	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, slog.LevelInfo)))

	cfg := config.Load()
	slog.Info("configuration loaded",
		"wsPort", cfg.WSPort,
		"maxPlayers", cfg.MaxPlayers,
		"maxRounds", cfg.MaxRounds,
		"allowReconnect", cfg.AllowReconnect,
		"sweepIntervalSec", cfg.SweepIntervalSec)

	ctx := context.Background()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connecting to database", "tag", "storage", "err", err)
		os.Exit(1)
	}
	if store == nil {
		slog.Info("persistence disabled (DATABASE_URL not set)")
	} else {
		defer store.Close()
	}

	var persister game.Persister
	if store != nil {
		persister = store
	}

	reg := registry.New(cfg, persister)
	go reg.RunSweep(ctx)

	hub := ws.NewHub(cfg, reg)
	go hub.Run(ctx)

	handler := api.NewHandler(cfg, store, reg)
	http.HandleFunc("/ws", hub.ServeWS)
	http.HandleFunc("/health", handler.Health)
	http.HandleFunc("/api/history", handler.History)

	addr := fmt.Sprintf(":%d", cfg.WSPort)
	slog.Info("Badam Satti server listening", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
