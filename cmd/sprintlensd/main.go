package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sprintlens/sprintlens/internal/analysis"
	"github.com/sprintlens/sprintlens/internal/api/rest"
	"github.com/sprintlens/sprintlens/internal/config"
	"github.com/sprintlens/sprintlens/internal/github"
	"github.com/sprintlens/sprintlens/internal/jira"
	"github.com/sprintlens/sprintlens/internal/schedule"
	"github.com/sprintlens/sprintlens/internal/summary"
)

const runTimeout = 10 * time.Minute

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "config.yaml"), "Path to the configuration file")
	flag.Parse()

	// Initialize logger
	logger, err := newLogger()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	filter, err := cfg.SprintFilter()
	if err != nil {
		logger.Fatal("invalid sprint filter", zap.Error(err))
	}

	// Create Jira client
	tracker, err := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Username, cfg.Jira.APIToken, logger)
	if err != nil {
		logger.Fatal("failed to create jira client", zap.Error(err))
	}

	opts := []analysis.Option{analysis.WithLogger(logger)}

	// Create GitHub client when code activity is configured
	if cfg.CodeActivityEnabled() {
		codeHost, err := github.NewClient(cfg.GitHub.Token, cfg.GitHub.Repos, logger)
		if err != nil {
			logger.Fatal("failed to create github client", zap.Error(err))
		}
		opts = append(opts, analysis.WithCodeHost(codeHost))
	}

	// Create summarizer when configured
	var summarizer summary.Summarizer
	if cfg.SummaryEnabled() {
		summarizer = summary.NewAISummarizer(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	}

	analyzer := analysis.New(tracker, opts...)
	store := rest.NewReportStore()

	// runAnalysis renders every configured project into one report. A
	// failed run keeps the previous report in place.
	runAnalysis := func() {
		start := time.Now()
		logger.Info("analysis run starting", zap.Strings("projects", cfg.Jira.Projects))

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		var reports []string
		for _, project := range cfg.Jira.Projects {
			result, err := analyzer.AnalyzeProject(ctx, project, cfg.Jira.ScrumBoardIDs, filter)
			if err != nil {
				logger.Error("analysis failed", zap.String("project", project), zap.Error(err))
				continue
			}
			report := analysis.Render(result)
			if summarizer != nil {
				report = appendSummary(ctx, summarizer, report, logger)
			}
			reports = append(reports, report)
		}

		if len(reports) == 0 {
			logger.Warn("analysis run produced no report")
			return
		}

		store.Set(strings.Join(reports, "\n"))
		logger.Info("analysis run finished", zap.Duration("took", time.Since(start)))
	}

	// At most one run at a time
	var running atomic.Bool
	trigger := func() bool {
		if !running.CompareAndSwap(false, true) {
			return false
		}
		go func() {
			defer running.Store(false)
			runAnalysis()
		}()
		return true
	}

	// Schedule recurring runs
	cronSchedule, err := schedule.New(cfg.Server.Schedule, cfg.Server.Timezone, func() {
		if !trigger() {
			logger.Warn("skipping scheduled run, analysis already in progress")
		}
	}, logger)
	if err != nil {
		logger.Fatal("failed to create schedule", zap.Error(err))
	}
	cronSchedule.Start()

	// Produce a report at startup instead of waiting for the first tick
	trigger()

	// Setup REST API
	restHandler := rest.NewHandler(store, trigger, logger)
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		restHandler.RegisterRoutes(r)
	})
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	cronSchedule.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	server.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

// appendSummary adds the AI summary section. A summarizer failure
// degrades to the plain report.
func appendSummary(ctx context.Context, summarizer summary.Summarizer, report string, logger *zap.Logger) string {
	text, err := summarizer.Summarize(ctx, report)
	if err != nil {
		logger.Error("failed to summarize report", zap.Error(err))
		return report
	}
	return report + "\n=== Executive Summary ===\n" + text + "\n"
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("SPRINTLENS_ENV") == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
