package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

type AnalysisRepository interface {
	Create(ctx context.Context, record *models.AnalysisRecord) error
	FindAll(ctx context.Context) ([]models.AnalysisRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*models.AnalysisStats, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

// FindAll returns every analysis, newest first.
func (r *analysisRepository) FindAll(ctx context.Context) ([]models.AnalysisRecord, error) {
	var records []models.AnalysisRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}

func (r *analysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &record, nil
}

func (r *analysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.AnalysisRecord{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}

	return nil
}

func (r *analysisRepository) Stats(ctx context.Context) (*models.AnalysisStats, error) {
	var row struct {
		Total    int64
		AvgMatch float64
		AvgATS   float64
	}

	err := r.db.WithContext(ctx).
		Model(&models.AnalysisRecord{}).
		Select("COUNT(*) AS total, COALESCE(AVG(job_match_score), 0) AS avg_match, COALESCE(AVG(ats_score), 0) AS avg_ats").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	return &models.AnalysisStats{
		TotalAnalyses:        row.Total,
		AverageJobMatchScore: models.RoundScore(row.AvgMatch),
		AverageATSScore:      models.RoundScore(row.AvgATS),
	}, nil
}
