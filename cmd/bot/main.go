package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cailot/cool-runnings/internal/archive"
	"github.com/cailot/cool-runnings/internal/collector"
	"github.com/cailot/cool-runnings/internal/config"
	"github.com/cailot/cool-runnings/internal/notifier"
	"github.com/cailot/cool-runnings/internal/scheduler"
	"github.com/cailot/cool-runnings/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] cool-runnings starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init archive
	var store archive.Archive
	if cfg.Database.SQLitePath != "" {
		sa, err := archive.NewSQLiteArchive(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite archive failed, using in-memory: %v", err)
			store = archive.NewMemoryArchive()
		} else {
			store = sa
		}
	} else {
		store = archive.NewMemoryArchive()
	}
	defer store.Close()

	// Seed the archive from CSV history if configured
	if cfg.DataSource.CSVPath != "" {
		if saved, err := archive.ImportCSV(store, cfg.DataSource.CSVPath); err != nil {
			log.Printf("[WARN] csv import: %v", err)
		} else if saved > 0 {
			log.Printf("[INFO] imported %d draws from %s", saved, cfg.DataSource.CSVPath)
		}
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.ResultsURL != "" {
		fetcher = collector.NewHTTPFetcher(cfg.DataSource.ResultsURL, cfg.Proxy)
	} else {
		fetcher = collector.NewCSVFetcher(cfg.DataSource.CSVPath)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, store)

	// Init notifier
	var sink notifier.Notifier
	if cfg.Email.SMTPHost != "" {
		sink = notifier.NewEmailNotifier(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.Username, cfg.Email.Password, cfg.Email.From, cfg.Email.To)
	} else {
		sink = notifier.Noop{}
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newApp(cfg, store)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, app, sink, cfg.Engine.ValidationDraws)
	if err := sched.RegisterAll(cfg.Schedule.CollectCron, cfg.Schedule.PredictCron, cfg.Schedule.ValidationCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Init HTTP façade
	srv := server.New(cfg.Server.ListenAddr, server.Handlers{
		Prediction: app.Prediction,
		Validation: app.Validation,
		Backtest:   app.Backtest,
		Tuning:     app.Tuning,
		LatestDraw: app.LatestDraw,
	})
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("[ERROR] http server: %v", err)
		}
	}()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing prediction task now")
		go sched.RunPredictNow()
	}

	log.Println("[INFO] cool-runnings is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] cool-runnings stopped")
}
