package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-motormony/internal/config"
	httpapi "github.com/tbourn/go-motormony/internal/http"
	"github.com/tbourn/go-motormony/internal/observability"
	"github.com/tbourn/go-motormony/internal/recommend"
	"github.com/tbourn/go-motormony/internal/repo"
	"github.com/tbourn/go-motormony/internal/services"
	"github.com/tbourn/go-motormony/internal/sysutil"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Serve the explorer API configured from the environment (see .env.example).",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sysutil.SetupLogger(logLevel(cfg.LogLevel), cfg.LogPretty)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	svc := newService(cfg, db, recommend.NewClient(recommend.Config{
		URL:     cfg.Recommend.URL,
		TopK:    cfg.Recommend.TopK,
		Timeout: cfg.Recommend.Timeout,
	}))
	svc.Metrics = observability.NewEngineMetrics(prometheus.DefaultRegisterer)
	go svc.RunJanitor(ctx, cfg.Explorer.JanitorInterval)

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, svc, cfg)
	srv := newServer(cfg.Server, r)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("recommend_url", cfg.Recommend.URL).
			Str("db", cfg.DBPath).
			Str("version", version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// newService applies the explorer limits from cfg.
func newService(cfg config.Config, db *gorm.DB, rec recommend.Recommender) *services.ExplorerService {
	svc := services.NewExplorerService(db, repo.Store{}, rec)
	svc.MaxQueryRunes = cfg.Explorer.MaxQueryRunes
	svc.IdleTTL = cfg.Explorer.SessionIdleTTL
	svc.IdempotencyTTL = cfg.IdempotencyTTL
	return svc
}

func newServer(cfg config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}
