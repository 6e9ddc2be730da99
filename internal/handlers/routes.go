package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the public API on app.
func RegisterRoutes(app *fiber.App, analyzeHandler *AnalyzeHandler, historyHandler *HistoryHandler) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":         "/health",
				"analyze_resume": "/api/analyze (POST)",
				"extract_skills": "/api/extract-skills (POST)",
				"calculate_ats":  "/api/calculate-ats (POST)",
				"history":        "/api/history (GET)",
				"stats":          "/api/stats (GET)",
			},
			"status": "Running successfully!",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "Backend is running!",
		})
	})

	api := app.Group("/api")

	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Post("/extract-skills", analyzeHandler.HandleExtractSkills)
	api.Post("/calculate-ats", analyzeHandler.HandleCalculateATS)

	api.Get("/history", historyHandler.HandleList)
	api.Get("/history/:id", historyHandler.HandleGet)
	api.Delete("/history/:id", historyHandler.HandleDelete)
	api.Get("/stats", historyHandler.HandleStats)
}
