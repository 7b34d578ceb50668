// Command dashboard serves the branch sales dashboard API on top of the
// ClickHouse and PostgreSQL stores.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/smlsoft/seaandhilldashboard-sub000/internal/config"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/database"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/logging"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/metrics"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/reports"
	"github.com/smlsoft/seaandhilldashboard-sub000/internal/server"
)

func main() {
	// A missing .env is fine, configuration falls back to the process
	// environment and the config file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootlog := logging.New(logging.Config{Level: "info", Format: "json"})
		bootlogFatal(bootlog, err, "configuration failed")
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := run(cfg, log); err != nil {
		bootlogFatal(log, err, "dashboard exited")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbs, err := cfg.ResolveDatabases()
	if err != nil {
		return err
	}

	mgr := database.NewManager(dbs, database.DefaultRegistry(log), log)
	if err := mgr.Initialize(ctx); err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := mgr.CloseAll(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing database connections failed")
		}
	}()

	m := metrics.New()
	svc := reports.NewService(mgr, m, log)
	srv := server.New(cfg.Server, mgr, svc, m, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func bootlogFatal(log zerolog.Logger, err error, msg string) {
	log.Error().Err(err).Msg(msg)
	os.Exit(1)
}
