package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// countingAnalyzer records the peak number of concurrent Analyze calls.
type countingAnalyzer struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (c *countingAnalyzer) Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisResult, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(c.delay)

	if in.Filename == "bad.txt" {
		return nil, ErrUnsupportedFormat
	}
	return &AnalysisResult{Report: models.MatchReport{TotalSkillsFound: len(in.Data)}}, nil
}

func (c *countingAnalyzer) ExtractSkills(context.Context, string, []byte) (*models.SkillSummary, error) {
	return nil, errors.New("not used")
}

func (c *countingAnalyzer) CalculateATS(context.Context, string, []byte) (*models.ATSResult, error) {
	return nil, errors.New("not used")
}

func TestBatchAnalyzerKeepsOrderAndIsolatesFailures(t *testing.T) {
	fake := &countingAnalyzer{delay: 5 * time.Millisecond}
	batch := NewBatchAnalyzer(fake, 2)

	items := []BatchItem{
		{Filename: "a.pdf", Data: []byte("a")},
		{Filename: "bad.txt", Data: []byte("bb")},
		{Filename: "c.docx", Data: []byte("ccc")},
		{Filename: "d.pdf", Data: []byte("dddd")},
		{Filename: "e.pdf", Data: []byte("eeeee")},
	}

	results := batch.Run(context.Background(), scenarioJob, items)
	require.Len(t, results, len(items))

	for i, res := range results {
		assert.Equal(t, items[i].Filename, res.Filename)
		if items[i].Filename == "bad.txt" {
			assert.ErrorIs(t, res.Err, ErrUnsupportedFormat)
			assert.Nil(t, res.Result)
			continue
		}
		require.NoError(t, res.Err)
		assert.Equal(t, len(items[i].Data), res.Result.Report.TotalSkillsFound)
	}

	assert.LessOrEqual(t, fake.peak.Load(), int32(2))
}

func TestBatchAnalyzerCancelledContext(t *testing.T) {
	fake := &countingAnalyzer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatchAnalyzer(fake, 0).Run(ctx, scenarioJob, []BatchItem{
		{Filename: "a.pdf", Data: []byte("a")},
		{Filename: "b.pdf", Data: []byte("b")},
	})

	require.Len(t, results, 2)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.Nil(t, res.Result)
	}
	assert.Equal(t, int32(0), fake.peak.Load())
}

func TestBatchAnalyzerRealPipeline(t *testing.T) {
	analyzer := newTestAnalyzer(&fakeAnalysisRepo{}, nil, nil)

	results := NewBatchAnalyzer(analyzer, 3).Run(context.Background(), scenarioJob, []BatchItem{
		{Filename: "jane.docx", Data: buildDOCX(t, resumeParagraphs...)},
		{Filename: "notes.txt", Data: []byte("python")},
	})

	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	assert.Equal(t, []string{"aws"}, results[0].Result.Report.MissingSkills)
	assert.ErrorIs(t, results[1].Err, ErrUnsupportedFormat)
	assert.Contains(t, results[1].Err.Error(), "notes.txt")
}
