package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mdmfern/WifiThreatAssessorProject/internal/alerts"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/api"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/config"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/metrics"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/scan"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/secscore"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/speedtest"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/store"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/ws"
	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessor service: scan loop, REST API, WebSocket hub and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runServe(ctx, cfg)
	},
}

func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("assessor starting",
		"http_port", cfg.Server.HTTPPort,
		"scan_interval", cfg.Scan.Interval,
		"store_ttl", cfg.Server.StoreTTL,
		"speedtest_schedule", cfg.SpeedTest.Schedule,
	)

	st := store.New(cfg.Server.StoreTTL, cfg.Server.ReportHistory)
	alertEngine := alerts.New(cfg.Alerts)
	mets := metrics.New()
	scanner := scan.NewScanner(cfg.Scan.CacheTTL)
	eng := speedtest.New(cfg.SpeedTest.Config, speedtest.NewHTTPProber())

	// runSpeed drives one measurement end to end and fans the report out to
	// the store, the metrics surface and the alert engine.
	runSpeed := func(ctx context.Context) {
		rep, err := eng.Run(ctx, cfg.SpeedTest.Servers)
		if err != nil {
			slog.Warn("speed test not started", "err", err)
			return
		}
		st.AddReport(rep)
		mets.SpeedTestCompleted(rep)
		alertEngine.Evaluate(alerts.ReportSample(rep))
		slog.Info("speed test finished",
			"status", rep.Status,
			"server", rep.ServerName,
			"elapsed", rep.Elapsed,
		)
	}

	// trigger backs POST /api/v1/speedtests. The reject policy answers the
	// caller immediately; queue lets the engine serialize runs itself.
	trigger := func() error {
		if eng.BusyPolicy() == speedtest.OnBusyReject && eng.Active() {
			return speedtest.ErrRunActive
		}
		go runSpeed(ctx)
		return nil
	}

	hub := ws.New(st, cfg.Server.WSInterval)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", api.New(st, alertEngine, trigger))
	mux.Handle("/ws/stream", hub)
	mux.Handle("/metrics", mets.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st.Run(ctx)
		return nil
	})

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		scanLoop(ctx, cfg.Scan.Interval, scanner, st, mets, alertEngine)
		return nil
	})

	if cfg.SpeedTest.Schedule != "" {
		g.Go(func() error {
			c := cron.New()
			if _, err := c.AddFunc(cfg.SpeedTest.Schedule, func() { runSpeed(ctx) }); err != nil {
				return fmt.Errorf("speedtest schedule: %w", err)
			}
			c.Start()
			slog.Info("scheduled speed tests enabled", "schedule", cfg.SpeedTest.Schedule)
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		})
	}

	if cfgFile != "" {
		g.Go(func() error {
			return config.Watch(ctx, cfgFile, func(next *config.Config) {
				// Full reload needs a restart; log so operators know the
				// running process still uses the old values.
				slog.Info("config file changed, restart to apply",
					"path", cfgFile,
					"scan_interval", next.Scan.Interval,
				)
			})
		})
	}

	g.Go(func() error {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("assessor shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// scanLoop refreshes assessments on a fixed cadence, starting immediately.
func scanLoop(ctx context.Context, interval time.Duration, scanner *scan.Scanner, st *store.Store, mets *metrics.Metrics, alertEngine *alerts.Engine) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		scanOnce(ctx, scanner, st, mets, alertEngine)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func scanOnce(ctx context.Context, scanner *scan.Scanner, st *store.Store, mets *metrics.Metrics, alertEngine *alerts.Engine) {
	nets, err := scanner.Scan(ctx, false)
	if err != nil {
		slog.Warn("wifi scan failed", "err", err)
		return
	}

	for _, n := range nets {
		rec := types.AssessmentRecord{
			Network:    n,
			Assessment: secscore.Assess(n.Attrs),
			AssessedAt: time.Now(),
		}
		st.PutAssessment(rec)
		mets.AssessmentRecorded(rec.Assessment.Coerced)
		alertEngine.Evaluate(alerts.NetworkSample(rec))
	}
	mets.ScanCompleted(len(nets))

	slog.Debug("scan cycle complete", "networks", len(nets))
}
