package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type HistoryHandler struct {
	repo repositories.AnalysisRepository
}

func NewHistoryHandler(repo repositories.AnalysisRepository) *HistoryHandler {
	return &HistoryHandler{
		repo: repo,
	}
}

// HandleList handles GET /api/history
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	records, err := h.repo.FindAll(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve history: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"total":    len(records),
		"analyses": records,
	})
}

// HandleGet handles GET /api/history/:id
func (h *HistoryHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	record, err := h.repo.FindByID(c.UserContext(), id)
	if errors.Is(err, repositories.ErrAnalysisNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve analysis: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"analysis": record,
	})
}

// HandleDelete handles DELETE /api/history/:id
func (h *HistoryHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	err = h.repo.Delete(c.UserContext(), id)
	if errors.Is(err, repositories.ErrAnalysisNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete analysis: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Analysis deleted successfully",
	})
}

// HandleStats handles GET /api/stats
func (h *HistoryHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.repo.Stats(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve statistics: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
