package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-relay/history"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
)

// Exit codes to provide meaningful status to the operating system or
// service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This keeps 'defer' statements (like the
// database cleanup) running before the process exits, and keeps the
// initialization logic testable outside main.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. History backend
	var store history.Store
	switch config.HistoryBackend {
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		store = history.NewBadgerStore(db, log)
	default:
		store = history.NewFileStore(config.HistoryDir, log)
	}

	// 3. Moderation (optional)
	var moderator *moderation.Moderator
	if config.CensoredWordsPath != "" {
		charReplacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return exitConfig, err
		}
		words, err := moderation.LoadWords(config.CensoredWordsPath)
		if err != nil {
			return exitConfig, err
		}
		moderator, err = moderation.NewModerator(words, charReplacement)
		if err != nil {
			return exitConfig, err
		}
		log.Info("Moderation enabled", "words", len(words))
	}

	// 4. Core wiring
	monitoring := observability.NewMonitoring()
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(registry, store, moderator, monitoring, log)
	dispatcher := runtime.NewDispatcher(registry, router, store, monitoring, log)
	server := runtime.NewServer(
		config.ListenAddress(), config.OutboundBuffer,
		registry, dispatcher, monitoring, log,
	)

	// 5. Supervision: the accept loop and the stats reporter run under the
	// supervisor until the signal context cancels.
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(server, workers.NewMonitorWorker(log, monitoring, config.MetricInterval))

	log.Info("Starting chat relay", "addr", config.ListenAddress(),
		"history_backend", config.HistoryBackend)
	supervisor.Run(ctx)

	log.Info("Shutdown complete")
	return exitOK, nil
}
