package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// Multipart field names.
const (
	fieldResumeFile     = "resume_file"
	fieldJobDescription = "job_description"
)

type AnalyzeHandler struct {
	analyzer    services.AnalyzerService
	maxFileSize int64
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyze handles POST /api/analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	jobDescription := c.FormValue(fieldJobDescription)
	if strings.TrimSpace(jobDescription) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Job description is required",
		})
	}

	filename, data, err := h.readResume(c)
	if err != nil {
		return err
	}

	result, err := h.analyzer.Analyze(c.UserContext(), services.AnalyzeInput{
		Filename:       filename,
		Data:           data,
		JobDescription: jobDescription,
	})
	if err != nil {
		return pipelineError(c, err, "Processing failed")
	}

	report := result.Report
	analysis := models.AnalysisResponse{
		JobMatchScore:  report.JobMatchScore,
		ATSScore:       report.ATSScore,
		ResumeStrength: report.ResumeStrength,
		SkillsFound: models.SkillsFoundResponse{
			Total:      report.TotalSkillsFound,
			ByCategory: result.Skills,
		},
		MissingSkills: models.MissingSkills{
			Count: report.MissingSkillsCount,
			List:  report.MissingSkills,
		},
		Recommendation: report.Recommendation,
		Warnings:       report.Warnings,
	}
	if result.RecordID != uuid.Nil {
		analysis.ID = result.RecordID.String()
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"analysis": analysis,
	})
}

// HandleExtractSkills handles POST /api/extract-skills
func (h *AnalyzeHandler) HandleExtractSkills(c *fiber.Ctx) error {
	filename, data, err := h.readResume(c)
	if err != nil {
		return err
	}

	summary, err := h.analyzer.ExtractSkills(c.UserContext(), filename, data)
	if err != nil {
		return pipelineError(c, err, "Skill extraction failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"skills":  summary,
	})
}

// HandleCalculateATS handles POST /api/calculate-ats
func (h *AnalyzeHandler) HandleCalculateATS(c *fiber.Ctx) error {
	filename, data, err := h.readResume(c)
	if err != nil {
		return err
	}

	res, err := h.analyzer.CalculateATS(c.UserContext(), filename, data)
	if err != nil {
		return pipelineError(c, err, "ATS calculation failed")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"ats_score": res.ATSScore,
		"file_size": res.TextLength,
	})
}

// readResume loads the uploaded resume into memory. Any returned error is a
// *fiber.Error ready for the app's error handler.
func (h *AnalyzeHandler) readResume(c *fiber.Ctx) (string, []byte, error) {
	fileHeader, err := c.FormFile(fieldResumeFile)
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "Resume file is required")
	}

	if fileHeader.Filename == "" {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "No file selected")
	}

	if fileHeader.Size > h.maxFileSize {
		return "", nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "failed to read uploaded file")
	}

	return fileHeader.Filename, data, nil
}
