package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
)

func newTestRepository(t *testing.T) AnalysisRepository {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "analyses.db")

	db, err := config.InitDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewAnalysisRepository(db)
}

func sampleRecord(filename string, match, ats float64, createdAt time.Time) *models.AnalysisRecord {
	record := models.NewAnalysisRecord(filename, "Backend engineer, Go and PostgreSQL",
		models.SkillFindings{
			"programming_languages": {"go"},
			"databases":             {"postgresql"},
			"ai_ml":                 {},
		},
		models.MatchReport{
			JobMatchScore:      match,
			ATSScore:           ats,
			ResumeStrength:     models.StrengthFair,
			MissingSkillsCount: 2,
			MissingSkills:      []string{"docker", "kubernetes"},
			Recommendation:     "Fair match. Add more skills from the job description.",
		})
	record.CreatedAt = createdAt
	return record
}

func TestAnalysisRepositoryCreateAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record := sampleRecord("jane.pdf", 42.5, 54, time.Now())
	require.NoError(t, repo.Create(ctx, record))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, "jane.pdf", found.Filename)
	assert.Equal(t, "Backend engineer, Go and PostgreSQL", found.JobType)
	assert.Equal(t, 42.5, found.JobMatchScore)
	assert.Equal(t, 54.0, found.ATSScore)
	assert.Equal(t, models.StrengthFair, found.ResumeStrength)
	assert.Equal(t, []string{"go"}, found.SkillsFound["programming_languages"])
	assert.Equal(t, []string{}, found.SkillsFound["ai_ml"])
	assert.Equal(t, models.MissingSkills{Count: 2, List: []string{"docker", "kubernetes"}}, found.MissingSkills)
	assert.False(t, found.UpdatedAt.IsZero())
}

func TestAnalysisRepositoryAssignsID(t *testing.T) {
	repo := newTestRepository(t)

	record := sampleRecord("jane.pdf", 10, 10, time.Now())
	record.ID = uuid.Nil
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEqual(t, uuid.Nil, record.ID)
}

func TestAnalysisRepositoryFindAllNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"first.pdf", "second.docx", "third.pdf"} {
		require.NoError(t, repo.Create(ctx, sampleRecord(name, 50, 50, base.Add(time.Duration(i)*time.Minute))))
	}

	records, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "third.pdf", records[0].Filename)
	assert.Equal(t, "second.docx", records[1].Filename)
	assert.Equal(t, "first.pdf", records[2].Filename)
}

func TestAnalysisRepositoryNotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), ErrAnalysisNotFound)
}

func TestAnalysisRepositoryDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record := sampleRecord("jane.pdf", 10, 20, time.Now())
	require.NoError(t, repo.Create(ctx, record))

	require.NoError(t, repo.Delete(ctx, record.ID))

	_, err := repo.FindByID(ctx, record.ID)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, record.ID), ErrAnalysisNotFound)
}

func TestAnalysisRepositoryStats(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	empty, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.AnalysisStats{}, empty)

	now := time.Now()
	require.NoError(t, repo.Create(ctx, sampleRecord("a.pdf", 10, 50, now)))
	require.NoError(t, repo.Create(ctx, sampleRecord("b.pdf", 20, 60, now)))
	require.NoError(t, repo.Create(ctx, sampleRecord("c.pdf", 20.5, 61, now)))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalAnalyses)
	assert.Equal(t, 16.83, stats.AverageJobMatchScore)
	assert.Equal(t, 57.0, stats.AverageATSScore)
}
