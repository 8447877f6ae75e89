package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/config"
	"github.com/claude/flexifit/internal/engine"
	"github.com/claude/flexifit/internal/generator"
	"github.com/claude/flexifit/internal/ingest/journal"
	"github.com/claude/flexifit/internal/logging"
	"github.com/claude/flexifit/internal/mcp"
	"github.com/claude/flexifit/internal/planner"
	"github.com/claude/flexifit/internal/scheduler"
	"github.com/claude/flexifit/internal/server"
	"github.com/claude/flexifit/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	mcpStdio := flag.Bool("mcp-stdio", false, "serve MCP over stdio against a remote server instead of running one")
	remote := flag.String("remote", "", "FlexiFit server URL for -mcp-stdio")
	apiKey := flag.String("api-key", os.Getenv("FLEXIFIT_API_KEY"), "API key for -mcp-stdio writes")
	flag.Parse()

	if *mcpStdio {
		os.Exit(runStdio(*remote, *apiKey))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	log.Info("FlexiFit starting", "version", Version)

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Engine and planner
	gen := generator.New(adaptive.SystemClock, generator.Options{FullWeek: cfg.Engine.FullWeek})
	engOpts := engine.Options{
		Rand:   adaptive.NewRand(cfg.Engine.RandomSeed),
		Logger: log.With("component", "engine"),
	}
	if cfg.Engine.GeneratePlans() {
		engOpts.Generator = gen
	}
	plans := planner.New(db, engine.New(engOpts), planner.Options{
		Generator:     gen,
		FeedbackLimit: cfg.Engine.MaxFeedbackHistory,
	}, log)

	srv := server.New(db, plans, journal.NewProvider(db, log), server.Options{
		APIKey:         cfg.Auth.APIKey,
		AdaptPerMinute: cfg.RateLimit.RequestsPerMinute,
		AdaptBurst:     cfg.RateLimit.Burst,
	}, log)

	if cfg.MCP.Enabled {
		mcpSrv := mcp.New(mcp.Local{DB: db, Planner: plans}, Version, log)
		srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
				return mcp.WithUserID(ctx, server.RequestUserID(r))
			}),
		))
		log.Info("MCP endpoint mounted", "path", "/mcp")
	}

	// Listen on the tailnet, or on a plain TCP port in dev mode
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		// The dev identity acts as user 1; make sure the row exists.
		if _, err := db.GetOrCreateUser(ctx, "local", "Local Dev User"); err != nil {
			log.Error("failed to create dev user", "error", err)
			os.Exit(1)
		}
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(db, plans, scheduler.Options{
			Spec:        cfg.Scheduler.Spec,
			Concurrency: cfg.Scheduler.Concurrency,
			Lookback:    cfg.Scheduler.Lookback,
		}, log.With("component", "scheduler"))
		if err != nil {
			log.Error("invalid scheduler config", "error", err)
			os.Exit(1)
		}
		if err := sched.Start(ctx); err != nil {
			log.Error("scheduler start failed", "error", err)
			os.Exit(1)
		}
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	if sched != nil {
		sched.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// runStdio serves MCP on stdin/stdout, reading data from a remote server.
// Logs go to stderr so they do not corrupt the protocol stream.
func runStdio(remote, apiKey string) int {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if remote == "" {
		log.Error("-remote is required with -mcp-stdio")
		return 1
	}
	s := mcp.New(mcp.NewHTTPClient(remote, apiKey), Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp stdio server failed", "error", err)
		return 1
	}
	return 0
}
