package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bookline/internal/apiclient"
	"bookline/internal/directory"
	"bookline/internal/guard"
	"bookline/internal/identity/service"
	"bookline/internal/identity/token"
	"bookline/internal/platform/clock"
	"bookline/internal/platform/config"
	"bookline/internal/platform/health"
	"bookline/internal/platform/logger"
	"bookline/internal/platform/metrics"
	"bookline/internal/platform/tracing"
	"bookline/internal/seeder"
	"bookline/internal/session"
	httptransport "bookline/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing bookline",
		"addr", cfg.Addr,
		"env", cfg.Env,
		"simulated_latency", cfg.SimulatedLatency,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users := directory.New()
	if err := seeder.New(users, log).SeedAll(ctx); err != nil {
		log.Error("failed to seed directory", "error", err)
		os.Exit(1)
	}

	sessions := session.NewStore(session.NewFileKV(cfg.SessionFile))
	tokens := token.NewGenerator(cfg.JWTSigningKey, "bookline", cfg.TokenTTL)
	m := metrics.New()

	var delayer clock.Delayer = clock.Real{}
	if !cfg.SimulatedLatency {
		delayer = clock.Noop{}
	}

	identity, err := service.New(users, sessions, tokens,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithTracer(tracing.NewOTel()),
		service.WithDelayer(delayer),
	)
	if err != nil {
		log.Error("failed to build identity service", "error", err)
		os.Exit(1)
	}

	g := guard.New(sessions, log)

	// One configured client for any feature needing a real backend,
	// independent of the mock identity layer.
	backend := apiclient.New(cfg.APIBaseURL, sessions, apiclient.WithLogger(log))

	healthHandler := health.New(cfg.Env)
	handler := httptransport.NewHandler(identity, sessions, g, backend, log)
	router := httptransport.NewRouter(handler, healthHandler, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
