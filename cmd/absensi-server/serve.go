package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hafizr/absensi-gate/internal/absensi/service"
	"github.com/hafizr/absensi-gate/internal/absensi/store/sqlite"
	"github.com/hafizr/absensi-gate/internal/config"
	"github.com/hafizr/absensi-gate/internal/db"
	"github.com/hafizr/absensi-gate/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "absensi-server ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return err
	}
	defer conn.Close()

	writer := db.NewWorker(conn)
	defer writer.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn, nil); err != nil {
			logger.Printf("dev seed: %v", err)
		}
	}

	// Stores
	eventStore := sqlite.NewEventStore(conn, writer)
	identityStore := sqlite.NewIdentityStore(conn, writer)
	heartbeatStore := sqlite.NewHeartbeatStore(conn, writer)

	// Services
	liveness := service.NewLivenessTracker()
	synchronizer := service.NewSynchronizer(eventStore, time.Duration(cfg.RecencyWindowSeconds)*time.Second)
	tracker := service.NewVerdictTracker(time.Duration(cfg.DebounceSeconds) * time.Second)
	reconciler := service.NewReconciler(identityStore, eventStore, synchronizer, tracker, liveness, logger)
	presence := service.NewPresenceResolver(eventStore)
	reports := service.NewReports(eventStore, presence, liveness)
	heartbeatSvc := service.NewHeartbeatService(heartbeatStore, liveness)

	pruner := service.NewHeartbeatPruner(heartbeatStore, service.PrunerConfig{
		RetentionDays: cfg.HeartbeatRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:           logger,
		Addr:             cfg.HTTPAddr,
		Reconciler:       reconciler,
		HeartbeatService: heartbeatSvc,
		Reports:          reports,
		MatchThreshold:   cfg.MatchThreshold,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
