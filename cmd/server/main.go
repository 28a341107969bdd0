// Package main is the entrypoint for the amgo dashboard API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amgohq/amgo/internal/api"
	"github.com/amgohq/amgo/internal/api/handler"
	"github.com/amgohq/amgo/internal/api/response"
	"github.com/amgohq/amgo/internal/assets"
	"github.com/amgohq/amgo/internal/campaigns"
	"github.com/amgohq/amgo/internal/config"
	"github.com/amgohq/amgo/internal/jobs"
	"github.com/amgohq/amgo/internal/notify"
	"github.com/amgohq/amgo/internal/sim"
	"github.com/amgohq/amgo/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "seed_demo", cfg.Server.SeedDemo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Create the in-memory store, optionally seeded with demo data
	memStore := store.NewMemoryStore()
	if cfg.Server.SeedDemo {
		store.Seed(memStore)
		slog.Info("demo data seeded")
	}

	// 3. Shared randomness source for every simulated delay and draw
	rng := sim.NewSource(cfg.Sim.Seed)
	if cfg.Sim.Seed != 0 {
		slog.Info("deterministic simulation", "seed", cfg.Sim.Seed)
	}

	// 4. Build the simulated service layer
	simCfg := jobs.DefaultSimulatorConfig()
	simCfg.FailureRate = cfg.Sim.FailureRate
	simCfg.CreateLatency = simCfg.CreateLatency.Scaled(cfg.Sim.LatencyScale)
	simCfg.AdvanceLatency = simCfg.AdvanceLatency.Scaled(cfg.Sim.LatencyScale)
	simulator := jobs.NewSimulator(memStore, rng, simCfg)

	campaignCfg := campaigns.DefaultConfig()
	campaignCfg.ConflictRate = cfg.Sim.ConflictRate
	campaignCfg.FetchLatency = campaignCfg.FetchLatency.Scaled(cfg.Sim.LatencyScale)
	campaignCfg.GetLatency = campaignCfg.GetLatency.Scaled(cfg.Sim.LatencyScale)
	campaignCfg.UpdateLatency = campaignCfg.UpdateLatency.Scaled(cfg.Sim.LatencyScale)
	campaignCfg.BulkLatency = campaignCfg.BulkLatency.Scaled(cfg.Sim.LatencyScale)
	campaignSvc := campaigns.NewService(memStore, rng, campaignCfg)

	assetCfg := assets.DefaultConfig()
	assetCfg.FailureRate = cfg.Sim.UploadFailureRate
	assetCfg.ListLatency = assetCfg.ListLatency.Scaled(cfg.Sim.LatencyScale)
	assetCfg.StepLatency = assetCfg.StepLatency.Scaled(cfg.Sim.LatencyScale)
	assetCfg.DeleteLatency = assetCfg.DeleteLatency.Scaled(cfg.Sim.LatencyScale)
	assetSvc := assets.NewService(memStore, rng, assetCfg)

	bus := notify.NewBus(cfg.Notify.TTL)

	// 5. Job feed and polling coordinator
	feed := jobs.NewFeed()
	poller := jobs.NewPoller(simulator, feed, bus, cfg.Sim.PollInterval)
	defer poller.Close()

	seeded, err := memStore.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	feed.SetAll(seeded)

	// Resume polling for jobs that were mid-flight when the data was seeded.
	for _, job := range seeded {
		if !job.Terminal() {
			poller.Start(job.ID)
			slog.Info("polling resumed", "job_id", job.ID, "status", job.Status)
		}
	}

	// 6. Build router with dependencies
	deps := api.Dependencies{
		HealthHandler: healthHandler(cfg.Server.Env),

		ListCampaigns:       handler.NewListCampaignsHandler(campaignSvc),
		GetCampaign:         handler.NewGetCampaignHandler(campaignSvc),
		PatchCampaign:       handler.NewPatchCampaignHandler(campaignSvc),
		BulkCampaignStatus:  handler.NewBulkCampaignStatusHandler(campaignSvc, bus),
		CampaignPerformance: handler.NewCampaignPerformanceHandler(campaignSvc),
		ListCampaignJobs:    handler.NewListCampaignJobsHandler(memStore),
		CreateCampaignJob:   handler.NewCreateJobHandler(simulator, memStore, feed, poller, bus),
		ListCampaignAssets:  handler.NewListAssetsHandler(assetSvc),
		UploadCampaignAsset: handler.NewUploadAssetHandler(assetSvc, bus),
		DeleteCampaignAsset: handler.NewDeleteAssetHandler(assetSvc, bus),

		ListJobs:       handler.NewListJobsHandler(memStore, poller),
		GetJob:         handler.NewGetJobHandler(memStore, poller),
		RetryJob:       handler.NewRetryJobHandler(simulator, feed, poller, bus),
		StopJobPolling: handler.NewStopJobPollingHandler(memStore, poller),
		WatchJobs:      handler.NewWatchJobsHandler(feed),

		ListNotifications:   handler.NewListNotificationsHandler(bus),
		DismissNotification: handler.NewDismissNotificationHandler(bus),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No write timeout: the jobs watch stream holds its connection open.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Stop the polling loops before draining so no advance races shutdown.
	poller.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler reports liveness. The data plane is in-memory, so there are
// no downstream dependencies to probe.
func healthHandler(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, map[string]any{
			"status": "ok",
			"env":    env,
		})
	}
}
