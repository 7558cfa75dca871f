package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sprintlens/sprintlens/internal/analysis"
	"github.com/sprintlens/sprintlens/internal/config"
	"github.com/sprintlens/sprintlens/internal/github"
	"github.com/sprintlens/sprintlens/internal/jira"
	"github.com/sprintlens/sprintlens/internal/summary"
)

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "config.yaml"), "Path to the configuration file")
	outputDir := flag.String("out", "", "Directory for report files (overrides report.output_dir)")
	withSummary := flag.Bool("summary", false, "Append an AI executive summary to each report")
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
	if *outputDir != "" {
		cfg.Report.OutputDir = *outputDir
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

	// Create summarizer when requested
	var summarizer summary.Summarizer
	if *withSummary {
		if !cfg.SummaryEnabled() {
			logger.Fatal("summary requested but openai.api_key is not configured")
		}
		summarizer = summary.NewAISummarizer(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	}

	analyzer := analysis.New(tracker, opts...)

	ctx := context.Background()
	for _, project := range cfg.Jira.Projects {
		result, err := analyzer.AnalyzeProject(ctx, project, cfg.Jira.ScrumBoardIDs, filter)
		if err != nil {
			logger.Fatal("analysis failed", zap.String("project", project), zap.Error(err))
		}

		report := analysis.Render(result)
		if summarizer != nil {
			report = appendSummary(ctx, summarizer, report, logger)
		}

		fmt.Print(report)

		if cfg.Report.OutputDir != "" {
			path, err := writeReport(cfg.Report.OutputDir, project, report)
			if err != nil {
				logger.Error("failed to write report file",
					zap.String("project", project), zap.Error(err))
				continue
			}
			logger.Info("report written", zap.String("path", path))
		}
	}
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

func writeReport(dir, project, report string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", project, time.Now().Format("20060102")))
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
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
