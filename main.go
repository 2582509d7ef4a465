// main.go - Entry point for the voting backend server

package main // Declares the package name

import ( // Import required packages
	"context"                    // Root context for the CLI
	"errors"                     // http.ErrServerClosed check
	"fmt"                        // Error wrapping
	"go-voting-backend/auth"     // Tokens and role lookups
	"go-voting-backend/config"   // Project config
	"go-voting-backend/database" // Database connection and setup
	"go-voting-backend/events"   // Vote notifications over MQTT
	"go-voting-backend/handlers" // HTTP handlers for API endpoints
	"go-voting-backend/logger"   // slog setup
	"go-voting-backend/routes"   // Route table
	"go-voting-backend/store"    // Persistence and voting
	"log/slog"                   // Structured logging
	"net"                        // Listen address
	"net/http"                   // HTTP server
	"os"                         // Args and exit code
	"os/signal"                  // SIGINT/SIGTERM handling
	"strconv"                    // Port formatting
	"syscall"                    // Signal numbers
	"time"                       // Timeouts

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/joho/godotenv" // .env loading
	"github.com/urfave/cli/v3" // CLI flags
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:   "voting-backend",
		Usage:  "Voting backend HTTP server",
		Flags:  config.Flags(),
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.NewFromCLI(cmd)
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	// STEP 1: storage
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("database_close_failed", "error", err)
		}
	}()
	if err := database.EnsureAdmin(ctx, db, cfg.Auth); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	// STEP 2: services
	s := store.New(db, log)
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	roles := auth.NewRoleAuthority(s, log)

	var publisher events.Publisher = events.Nop{}
	if cfg.MQTT.Broker != "" {
		p, err := events.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic, log)
		if err != nil {
			return fmt.Errorf("connect mqtt: %w", err)
		}
		publisher = p
	}
	defer publisher.Close()

	// STEP 3: HTTP
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.New(routes.Deps{
		Handler: handlers.New(s, tokens, publisher, log),
		Tokens:  tokens,
		Roles:   roles,
		Logger:  log,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, log)
}

// serve runs srv until SIGINT or SIGTERM, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server_stopped")
	return nil
}
