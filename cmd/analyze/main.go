package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
	"alfredoptarigan/resume-analyzer/pkg/logger"
)

type output struct {
	File     string               `json:"file"`
	ID       string               `json:"id,omitempty"`
	Analysis *models.MatchReport  `json:"analysis,omitempty"`
	Skills   models.SkillFindings `json:"skills_found,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func main() {
	var (
		jobFile  = flag.String("job", "", "path to a text file holding the job description")
		jobText  = flag.String("job-text", "", "job description given inline")
		workers  = flag.Int("workers", 0, "concurrent analyses (defaults to WORKER_CONCURRENCY)")
		save     = flag.Bool("save", false, "store results in the configured database")
		logLevel = flag.String("log-level", "", "override LOG_LEVEL")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] resume.pdf [resume.docx ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal(ctx, "❌ Failed to load config", logger.Error(err))
	}

	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	if err := logger.Init(level); err != nil {
		logger.Get().Fatal(ctx, "❌ Failed to initialize logger", logger.Error(err))
	}
	// stdout carries the JSON results
	logger.SetOutput(os.Stderr)
	log := logger.Named("analyze")

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	jobDescription, err := readJobDescription(*jobFile, *jobText)
	if err != nil {
		log.Fatal(ctx, "❌ Failed to read job description", logger.Error(err))
	}

	var repo repositories.AnalysisRepository
	if *save {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatal(ctx, "❌ Failed to initialize database", logger.Error(err))
		}
		repo = repositories.NewAnalysisRepository(db)
		log.Info(ctx, "✅ Results will be saved", logger.String("driver", cfg.Database.Driver))
	}

	analyzer := services.NewAnalyzerService(
		services.NewResumeParserService(),
		repo,
		nil,
		nil,
		log.Named("analyzer"),
	)

	concurrency := cfg.Worker.Concurrency
	if *workers > 0 {
		concurrency = *workers
	}

	items := make([]services.BatchItem, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal(ctx, "❌ Failed to read resume", logger.String("path", path), logger.Error(err))
		}
		items = append(items, services.BatchItem{Filename: filepath.Base(path), Data: data})
	}

	log.Info(ctx, "🚀 Analysing resumes", logger.Int("count", len(items)), logger.Int("workers", concurrency))
	results := services.NewBatchAnalyzer(analyzer, concurrency).Run(ctx, jobDescription, items)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	failed := 0
	for _, res := range results {
		out := output{File: res.Filename}
		if res.Err != nil {
			failed++
			out.Error = res.Err.Error()
		} else {
			out.Analysis = &res.Result.Report
			out.Skills = res.Result.Skills
			if res.Result.RecordID != uuid.Nil {
				out.ID = res.Result.RecordID.String()
			}
		}
		if err := enc.Encode(out); err != nil {
			log.Fatal(ctx, "❌ Failed to write result", logger.Error(err))
		}
	}

	log.Info(ctx, "📊 Batch summary",
		logger.Int("successful", len(results)-failed), logger.Int("failed", failed))

	if failed > 0 {
		os.Exit(1)
	}
}

func readJobDescription(path, text string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("a job description is required (-job or -job-text)")
	}
	return text, nil
}
