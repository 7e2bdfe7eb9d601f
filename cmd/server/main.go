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

	"adwise/internal/delivery"
	"adwise/internal/infrastructure"
	"adwise/internal/usecase"
	"adwise/pkg/config"
	"adwise/pkg/logger"
	"adwise/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.WithField("upstream", cfg.Upstream.BaseURL).Info("Starting adwise server")

	m := metrics.New()

	repo := infrastructure.NewCampaignClient(infrastructure.ClientOptions{
		BaseURL:            cfg.Upstream.BaseURL,
		Timeout:            cfg.Upstream.RequestTimeout,
		AnalysisTimeout:    cfg.Upstream.AnalysisTimeout,
		RateLimitPerSecond: cfg.Upstream.RateLimitPerSecond,
		RateLimitBurst:     cfg.Upstream.RateLimitBurst,
	}, log, m)

	campaignService := usecase.NewCampaignService(repo, log, m)
	ingestService := usecase.NewIngestService(repo, log, m)
	analysisService := usecase.NewAnalysisService(repo, log, m)

	handlers := delivery.NewHTTPHandlers(
		campaignService,
		ingestService,
		analysisService,
		log,
		cfg.Ingest.MaxUploadSize,
		cfg.Ingest.MaxRows,
	)
	router := delivery.NewHTTPRouter(handlers, log, m)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.SetupRoutes(),
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}
