package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-analyzer/pkg/logger"
)

// BatchItem is one resume of a batch.
type BatchItem struct {
	Filename string
	Data     []byte
}

// BatchResult is the outcome for one BatchItem. Exactly one of Result and Err
// is set.
type BatchResult struct {
	Filename string
	Result   *AnalysisResult
	Err      error
}

// BatchAnalyzer scores many resumes against one job description with a
// bounded number of concurrent pipeline runs.
type BatchAnalyzer struct {
	analyzer    AnalyzerService
	concurrency int
	log         logger.Logger
}

func NewBatchAnalyzer(analyzer AnalyzerService, concurrency int) *BatchAnalyzer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchAnalyzer{
		analyzer:    analyzer,
		concurrency: concurrency,
		log:         logger.Named("batch"),
	}
}

// Run analyses every item and returns results in input order. A failing
// item never stops the others; cancelling ctx stops scheduling new items and
// marks them with the context error.
func (b *BatchAnalyzer) Run(ctx context.Context, jobDescription string, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))

	b.log.Info(ctx, "starting batch",
		logger.Int("items", len(items)), logger.Int("workers", b.concurrency))

	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)

	for i, item := range items {
		i, item := i, item // per-iteration copies (go 1.21 loop semantics)
		results[i].Filename = item.Filename

		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			res, err := b.analyzer.Analyze(ctx, AnalyzeInput{
				Filename:       item.Filename,
				Data:           item.Data,
				JobDescription: jobDescription,
			})
			if err != nil {
				results[i].Err = fmt.Errorf("%s: %w", item.Filename, err)
				b.log.Warn(ctx, "batch item failed",
					logger.String("filename", item.Filename), logger.Error(err))
				return nil
			}
			results[i].Result = res
			return nil
		})
	}

	_ = g.Wait()

	b.log.Info(ctx, "batch finished", logger.Int("items", len(items)))
	return results
}
