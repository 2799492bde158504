// Package main implements the chessmoves server: a RESTful API over the
// tile move generator with board tokens, optional SQLite persistence and
// an optional web explorer.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessmoves/cmd/chess-server/cli"
	"chessmoves/internal/server/http"
	"chessmoves/internal/server/processor"
	"chessmoves/internal/server/service"
	"chessmoves/internal/server/storage"
	"chessmoves/internal/server/webserver"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
)

const (
	gracefulShutdownTimeout = time.Second * 5
	devTokenSecret          = "dev-secret-minimum-32-characters-long"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	// Database maintenance subcommands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.WithError(err).Fatal("cli")
		}
		os.Exit(0)
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, fixed token secret, debug logs)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")

		pawnJump    = flag.Bool("pawn-jump", false, "Pawn two-step advance checks only the destination tile")
		maxBoards   = flag.Int("max-boards", service.DefaultMaxBoards, "Maximum number of live boards")
		boardTTL    = flag.Duration("board-ttl", service.DefaultBoardTTL, "Idle time after which a board is evicted")
		tokenSecret = flag.String("token-secret", "", "Hex HS256 secret for board tokens (random if empty)")
		evalWorkers = flag.Int("eval-workers", 4, "Workers for stateless move evaluation")

		serve   = flag.Bool("serve", false, "Enable web explorer server")
		webHost = flag.String("web-host", "localhost", "Web explorer host")
		webPort = flag.Int("web-port", 9090, "Web explorer port")
	)
	flag.Parse()

	if *dev {
		log.SetLevel(log.DebugLevel)
	}

	if *pidLock && *pidPath == "" {
		log.Fatal("-pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.WithError(err).Fatal("failed to manage PID file")
		}
		defer cleanup()
		log.WithFields(log.Fields{"path": *pidPath, "lock": *pidLock}).Info("PID file created")
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.WithField("path", *storagePath).Info("initializing persistent storage")
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.WithError(err).Fatal("failed to initialize schema")
		}
		// Closed by svc.Shutdown after the writer drains
	} else {
		log.Info("persistent storage disabled (use -storage-path to enable)")
	}

	secret, err := resolveSecret(*tokenSecret, *dev)
	if err != nil {
		log.WithError(err).Fatal("invalid token secret")
	}

	// 2. Service
	svc := service.New(store, service.Config{
		MaxBoards:   *maxBoards,
		BoardTTL:    *boardTTL,
		TokenSecret: secret,
		PawnJump:    *pawnJump,
	})

	if store != nil {
		n, err := svc.Restore()
		if err != nil {
			log.WithError(err).Warn("failed to restore boards")
		} else {
			log.WithField("boards", n).Info("boards restored")
		}
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go svc.RunCleanupJob(cleanupCtx, service.CleanupJobInterval)

	// 3. Processor
	proc := processor.New(svc, *evalWorkers)

	// 4. HTTP API
	app := http.NewFiberApp(proc, svc, http.Config{DevMode: *dev})
	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.WithFields(log.Fields{
			"addr":      "http://" + apiAddr,
			"dev":       *dev,
			"pawn_jump": *pawnJump,
			"storage":   *storagePath != "",
		}).Info("API server starting")
		log.Infof("board endpoints: http://%s/api/v1/boards", apiAddr)
		log.Infof("health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.WithError(err).Error("API server listen error")
		}
	}()

	// 5. Web explorer (optional)
	if *serve {
		webAddr := fmt.Sprintf("%s:%d", *webHost, *webPort)
		apiURL := fmt.Sprintf("http://%s", apiAddr)

		go func() {
			log.WithFields(log.Fields{"addr": "http://" + webAddr, "api": apiURL}).Info("web explorer starting")
			if err := webserver.Start(*webHost, *webPort, apiURL); err != nil {
				log.WithError(err).Error("web explorer error")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down servers")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("server forced to shutdown")
	}

	if err := proc.Close(); err != nil {
		log.WithError(err).Warn("processor close error")
	}

	cleanupCancel()

	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.WithError(err).Warn("service shutdown error")
	}

	log.Info("servers exited")
}

// resolveSecret decodes a hex secret, falls back to a fixed one in dev mode
// and otherwise generates a random one. Tokens signed with a random secret
// stop validating after a restart.
func resolveSecret(hexSecret string, dev bool) ([]byte, error) {
	if hexSecret != "" {
		secret, err := hex.DecodeString(hexSecret)
		if err != nil {
			return nil, fmt.Errorf("decode hex: %w", err)
		}
		if len(secret) < 32 {
			return nil, fmt.Errorf("secret must be at least 32 bytes, got %d", len(secret))
		}
		log.Info("using configured token secret")
		return secret, nil
	}

	if dev {
		log.Info("using fixed token secret (dev mode)")
		return []byte(devTokenSecret), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	log.Info("token secret generated (board tokens valid until restart)")
	return secret, nil
}
