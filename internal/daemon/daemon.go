package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swanstudios/progression/internal/api"
	"github.com/swanstudios/progression/internal/app/progression"
	"github.com/swanstudios/progression/internal/health"
	_ "github.com/swanstudios/progression/internal/infra/metrics" // Register Prometheus metrics
	"github.com/swanstudios/progression/internal/infra/store"
)

// Daemon is the progression service runtime. It wires the store, the
// facade, and the API server together.
type Daemon struct {
	Config Config
	Store  *store.SQLite
	Facade *progression.Facade
	Server *api.Server
	Health *health.Checker
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Service.DataDir
	if dataDir == "" {
		dataDir = progressionHome()
	}

	db, err := store.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	rules := progression.DefaultRules()
	rules.RollCooldown = cfg.Game.RollCooldownDuration()
	if cfg.Game.BoardRewardPoints > 0 {
		rules.BoardRewardPoints = cfg.Game.BoardRewardPoints
	}
	if cfg.Game.DieSides > 0 {
		rules.DieSides = cfg.Game.DieSides
	}
	if cfg.Game.WorkoutPoints > 0 {
		rules.WorkoutPoints = cfg.Game.WorkoutPoints
	}

	facade := progression.NewFacade(progression.FacadeConfig{
		Store:       db,
		Leaderboard: db,
		Activity:    db,
		Rules:       rules,
		MaxRetries:  cfg.Game.CASRetries,
	})

	srv := api.NewServer(facade)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, dataDir)
	srv.SetHealth(checker)

	return &Daemon{
		Config: cfg,
		Store:  db,
		Facade: facade,
		Server: srv,
		Health: checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.Store.Close()
	}()

	fmt.Printf("progression serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close releases daemon resources without serving.
func (d *Daemon) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	return d.Store.Close()
}
