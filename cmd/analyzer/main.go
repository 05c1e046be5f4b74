package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"CopperAnalytics/internal/cleaner"
	"CopperAnalytics/internal/collector"
	"CopperAnalytics/internal/config"
	"CopperAnalytics/internal/logger"
	"CopperAnalytics/internal/notifier"
	"CopperAnalytics/internal/pipeline"
	"CopperAnalytics/internal/publisher"
	"CopperAnalytics/internal/recorder"
	"CopperAnalytics/internal/report"
	"CopperAnalytics/internal/scheduler"
)

const (
	exitRunFailed = 1
	exitBootstrap = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	log := logger.GetLogger().WithComponent("main")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Error("load config")
		return exitBootstrap
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Error("invalid config")
		return exitBootstrap
	}
	if err := logger.GetLogger().Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("configure logging")
		return exitBootstrap
	}
	log.WithField("config", cfgPath).Info("CopperAnalytics starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner, cleanup := buildRunner(ctx, cfg)
	defer cleanup()

	if !cfg.Schedule.Enabled {
		if err := runner.Run(ctx); err != nil {
			log.WithError(err).Error(pipeline.Diagnostic(err))
			return exitRunFailed
		}
		return 0
	}

	sched := scheduler.NewScheduler(ctx, runner.Run)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.WithError(err).Error("register schedule")
		return exitBootstrap
	}
	sched.Start()
	if cfg.Schedule.RunOnStart {
		log.Info("run_on_start enabled, executing analysis now")
		go sched.RunNow()
	}
	log.Info("CopperAnalytics is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	log.Info("CopperAnalytics stopped")
	return 0
}

// buildRunner wires the pipeline and its optional collaborators. Collaborators
// that fail to initialise fall back to no-ops.
func buildRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, func()) {
	log := logger.GetLogger().WithComponent("main")

	fetcher := collector.NewHTTPFetcher(cfg.Source.URL, cfg.Source.UserAgent, cfg.Source.Timeout, cfg.Proxy)
	p := &pipeline.Pipeline{
		Retriever: collector.NewRetriever(fetcher, cfg.Retry.MaxAttempts, cfg.Retry.Backoff, cfg.Source.ExpectedContentTypes),
		Cleaner:   cleaner.NewCleaner(cfg.Cleaning.MinRows, cfg.Cleaning.DateLayouts),
		Writer:    report.NewWriter(cfg.Output.ReportPath, cfg.Output.CompanionPath, cfg.Output.IndexHTMLPath),
		Source:    cfg.Source.URL,
		Version:   cfg.Output.AnalysisVersion,
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	var pub publisher.Publisher = publisher.NewNoopPublisher()
	if cfg.Storage.S3.Enabled {
		sp, err := publisher.NewS3Publisher(ctx, cfg.Storage.S3, cfg.Output.ReportPath, cfg.Output.CompanionPath, cfg.Output.AnalysisVersion)
		if err != nil {
			log.WithError(err).Warn("init s3 publisher failed, using noop")
		} else {
			pub = sp
		}
	}

	var note notifier.Notifier = notifier.NewNoopNotifier()
	if cfg.TelegramEnabled() {
		note = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	log.WithFields(logger.Fields{
		"source":    cfg.Source.URL,
		"publisher": pub.Name(),
		"schedule":  cfg.Schedule.Enabled,
	}).Info("components initialised")

	cleanup := func() {
		if err := rec.Close(); err != nil {
			log.WithError(err).Warn("close recorder")
		}
	}
	return &pipeline.Runner{Pipeline: p, Recorder: rec, Publisher: pub, Notifier: note}, cleanup
}
