// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/noisebox/internal/api/connect"
	"github.com/osa030/noisebox/internal/api/noiseboxv1/noiseboxv1connect"
	"github.com/osa030/noisebox/internal/app/board"
	"github.com/osa030/noisebox/internal/app/catalog"
	"github.com/osa030/noisebox/internal/app/playlist"
	"github.com/osa030/noisebox/internal/audio"
	"github.com/osa030/noisebox/internal/infra/config"
	"github.com/osa030/noisebox/internal/infra/logger"
)

var (
	app        = kingpin.New("noisebox-server", "Sleep Noise Maker sound board server")
	configPath = app.Flag("config", "Path to config file (built-in defaults when empty)").Default("").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-sounds command
	listSoundsCmd = app.Command("list-sounds", "List catalog sounds and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Load config
	if *configPath != "" {
		zlog.Info().Msgf("Loading config from %s", *configPath)
	}
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if command == listSoundsCmd.FullCommand() {
		printSounds(cfg)
		return
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	cat, err := catalog.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	backend, err := audio.NewBackendFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create audio backend: %w", err)
	}

	// Create board; the display list is composed once here for the session
	boardSvc := board.NewService(cat, backend, playlist.NewComposer(nil), board.Options{})
	if err := boardSvc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start board: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := boardSvc.Close(closeCtx); err != nil {
			zlog.Error().Msgf("Failed to release audio on shutdown: %v", err)
		}
	}()

	// Create HTTP mux
	mux := http.NewServeMux()
	path, handler := noiseboxv1connect.NewBoardServiceHandler(
		apiconnect.NewBoardService(boardSvc, cfg.UI),
		connect.WithInterceptors(apiconnect.NewTokenInterceptor(cfg)),
	)
	mux.Handle(path, handler)

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	// Channel to capture server startup errors
	serverErrCh := make(chan error, 1)

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close the board first so subscription streams end
	if err := boardSvc.Close(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to release audio: %v", err)
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// printSounds prints the catalog.
func printSounds(cfg *config.Config) {
	fmt.Println("Catalog:")
	for _, s := range cfg.Catalog.Sounds {
		fmt.Printf("  %-6s %-20s %s\n", s.ID, s.Title, s.File)
	}
}
