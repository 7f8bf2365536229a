package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/config"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/httpapi"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/hub"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/logging"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/metrics"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/seed"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/ws"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr     string
		seedFile string
		logLevel string
		envFile  string
	)

	cmd := &cobra.Command{
		Use:          "roster-server",
		Short:        "Serve fantasy roster sessions over HTTP and websockets",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("seed") {
				cfg.SeedFile = seedFile
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides ROSTER_ADDR)")
	cmd.Flags().StringVar(&seedFile, "seed", "", "YAML roster seed used for new sessions (overrides ROSTER_SEED_FILE)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (overrides ROSTER_LOG_LEVEL)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	roster, err := defaultRoster(cfg.SeedFile)
	if err != nil {
		return err
	}

	rec := metrics.New()
	h := hub.NewHub(ctx, hub.Options{
		SearchMode: cfg.Mode(),
		Logger:     log,
		Metrics:    rec,
	})

	reaper, err := hub.NewReaper(h, cfg.Session.ReapInterval, cfg.Session.IdleTTL)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:          h,
			Metrics:      rec,
			Logger:       log,
			DefaultState: roster,
			WS: ws.Options{
				ReadTimeout:  cfg.WebSocket.ReadTimeout,
				WriteTimeout: cfg.WebSocket.WriteTimeout,
				OutboxSize:   cfg.Session.OutboxSize,
				Logger:       log.Named("ws"),
			},
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("search_mode", cfg.SearchMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		reaper.Start()
		<-gctx.Done()
		return reaper.Stop()
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		_ = h.Send(context.Background(), hub.ShutdownHub{})
		<-h.Done()
		return err
	})

	return g.Wait()
}

// defaultRoster is the roster new sessions start from when POST /sessions
// carries no body.
func defaultRoster(path string) (engine.State, error) {
	if path == "" {
		return seed.Build(nil)
	}
	sd, err := seed.Load(path)
	if err != nil {
		return engine.State{}, err
	}
	st, err := engine.NewState(sd)
	if err != nil {
		return engine.State{}, fmt.Errorf("seed %s: %w", path, err)
	}
	return st, nil
}
