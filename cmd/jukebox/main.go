package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/bot"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/logging"
	_ "github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/meta"
	_ "github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/jukebox
var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logCfg, err := logging.LoadConfig()
	if err != nil {
		slog.Error("failed to load logging config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stdout, logCfg))

	slog.Info("starting jukebox", "version", version)

	// Load configuration
	cfg, err := bot.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create and configure bot
	b := bot.NewBot(cfg)
	b.LoadModules()

	if err := b.Start(); err != nil {
		slog.Error("failed to start bot", "error", err)
		_ = b.Stop()
		os.Exit(1)
	}

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed bot shutdown")
}
