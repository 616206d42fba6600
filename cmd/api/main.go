package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/mzolotarev/legal-assistant/internal/adapters/http"
	"github.com/mzolotarev/legal-assistant/internal/bootstrap"
	"github.com/mzolotarev/legal-assistant/internal/config"
	"github.com/mzolotarev/legal-assistant/internal/observability/logging"
	"github.com/mzolotarev/legal-assistant/internal/observability/metrics"
)

const serviceName = "legal-assistant-api"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	serverMetrics := metrics.NewHTTPServerMetrics(serviceName)
	router := httpadapter.NewRouter(httpadapter.Deps{
		Ingestor: app.IngestUC,
		Remover:  app.RemoveUC,
		Searcher: app.SearchUC,
		Chat:     app.ChatUC,
		Repo:     app.Repo,
		Index:    app.Index,
		Metrics:  serverMetrics,
		Service:  serviceName,
		Logger:   logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", serverMetrics.Handler())
	mux.Handle("/", router.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}
}
