package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/pkg/logger"
	"alfredoptarigan/resume-analyzer/pkg/metrics"
)

// Operation names used for logging and metrics.
const (
	OperationAnalyze = "analyze"
	OperationSkills  = "extract_skills"
	OperationATS     = "calculate_ats"
)

type AnalyzeInput struct {
	Filename       string
	Data           []byte
	JobDescription string
}

type AnalysisResult struct {
	// RecordID is uuid.Nil when the analysis could not be saved.
	RecordID uuid.UUID
	Report   models.MatchReport
	Skills   models.SkillFindings
	Archive  string
}

type AnalyzerService interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisResult, error)
	ExtractSkills(ctx context.Context, filename string, data []byte) (*models.SkillSummary, error)
	CalculateATS(ctx context.Context, filename string, data []byte) (*models.ATSResult, error)
}

type analyzerService struct {
	parser  ResumeParserService
	catalog *SkillCatalog
	repo    repositories.AnalysisRepository
	storage StorageService
	metrics *metrics.Manager
	log     logger.Logger
}

// NewAnalyzerService wires the pipeline. repo and storage may be nil, in
// which case results are neither saved nor archived.
func NewAnalyzerService(
	parser ResumeParserService,
	repo repositories.AnalysisRepository,
	storage StorageService,
	m *metrics.Manager,
	log logger.Logger,
) AnalyzerService {
	if storage == nil {
		storage = noopStorage{}
	}
	if log == nil {
		log = logger.Named("analyzer")
	}
	return &analyzerService{
		parser:  parser,
		catalog: DefaultCatalog,
		repo:    repo,
		storage: storage,
		metrics: m,
		log:     log,
	}
}

func (a *analyzerService) Analyze(ctx context.Context, in AnalyzeInput) (result *AnalysisResult, err error) {
	start := time.Now()
	defer func() { a.record(OperationAnalyze, start, err) }()

	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, &ValidationError{Field: "job_description", Message: "Job description is required"}
	}
	if err := validateUpload(in.Filename, in.Data); err != nil {
		return nil, err
	}

	parsed, err := a.parser.ParseResume(in.Filename, in.Data)
	if err != nil {
		return nil, err
	}
	resumeText := parsed.CleanedText

	resumeFindings := a.catalog.ExtractSkills(resumeText)
	resumeSkills := FlattenSkills(resumeFindings)

	jobSkills := FlattenSkills(a.catalog.ExtractSkills(in.JobDescription))
	missing := FindMissingSkills(resumeSkills, jobSkills)

	match := ScoreMatch(resumeText, in.JobDescription)
	ats := ScoreATS(resumeText)
	a.reportDegraded(ctx, "match", match, in.Filename)
	a.reportDegraded(ctx, "ats", ats, in.Filename)

	report := AssembleReport(match, ats, resumeSkills, missing)
	a.metrics.ObserveScores(report.JobMatchScore, report.ATSScore)

	result = &AnalysisResult{
		Report: report,
		Skills: resumeFindings,
	}

	location, archiveErr := a.storage.Archive(ctx, in.Filename, in.Data)
	if archiveErr != nil {
		a.metrics.RecordArchiveFailure()
		a.log.Warn(ctx, "failed to archive upload",
			logger.String("filename", in.Filename), logger.Error(archiveErr))
	} else {
		result.Archive = location
	}

	if a.repo != nil {
		record := models.NewAnalysisRecord(in.Filename, in.JobDescription, resumeFindings, report)
		if saveErr := a.repo.Create(ctx, record); saveErr != nil {
			a.metrics.RecordPersistenceFailure()
			a.log.Error(ctx, "database save error",
				logger.String("filename", in.Filename), logger.Error(saveErr))
		} else {
			result.RecordID = record.ID
		}
	}

	a.log.Info(ctx, "analysis completed",
		logger.String("filename", in.Filename),
		logger.Float64("job_match_score", report.JobMatchScore),
		logger.Float64("ats_score", report.ATSScore),
		logger.Int("skills_found", report.TotalSkillsFound),
		logger.Int("missing_skills", report.MissingSkillsCount),
	)

	return result, nil
}

func (a *analyzerService) ExtractSkills(ctx context.Context, filename string, data []byte) (summary *models.SkillSummary, err error) {
	start := time.Now()
	defer func() { a.record(OperationSkills, start, err) }()

	if err := validateUpload(filename, data); err != nil {
		return nil, err
	}

	parsed, err := a.parser.ParseResume(filename, data)
	if err != nil {
		return nil, err
	}

	s := a.catalog.Summarize(a.catalog.ExtractSkills(parsed.CleanedText))
	return &s, nil
}

func (a *analyzerService) CalculateATS(ctx context.Context, filename string, data []byte) (res *models.ATSResult, err error) {
	start := time.Now()
	defer func() { a.record(OperationATS, start, err) }()

	if err := validateUpload(filename, data); err != nil {
		return nil, err
	}

	parsed, err := a.parser.ParseResume(filename, data)
	if err != nil {
		return nil, err
	}

	ats := ScoreATS(parsed.CleanedText)
	a.reportDegraded(ctx, "ats", ats, filename)

	return &models.ATSResult{
		ATSScore:   ats.Score,
		TextLength: parsed.Length,
	}, nil
}

func validateUpload(filename string, data []byte) error {
	if filename == "" {
		return &ValidationError{Field: "resume_file", Message: "No file selected"}
	}
	if len(data) == 0 {
		return &ValidationError{Field: "resume_file", Message: "Resume file is required"}
	}
	return nil
}

func (a *analyzerService) reportDegraded(ctx context.Context, scorer string, res ScoreResult, filename string) {
	if !res.Degraded {
		return
	}
	a.metrics.RecordDegradedScore(scorer)
	a.log.Error(ctx, "scorer failed, using zero score",
		logger.String("scorer", scorer),
		logger.String("filename", filename),
		logger.Error(res.Cause),
	)
}

func (a *analyzerService) record(operation string, start time.Time, err error) {
	a.metrics.RecordAnalysis(operation, outcomeOf(err), time.Since(start))

	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		a.metrics.RecordExtractionFailure(extractErr.Format)
		a.log.Warn(context.Background(), "document extraction failed",
			logger.String("operation", operation), logger.Error(err))
	}
}

func outcomeOf(err error) string {
	var (
		extractErr *ExtractionError
		validErr   *ValidationError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrUnsupportedFormat):
		return metrics.OutcomeUnsupported
	case errors.As(err, &extractErr):
		return metrics.OutcomeExtraction
	case errors.As(err, &validErr):
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeError
	}
}
