package handlers

import (
	"log"

	"wardrobe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the aggregated numbers behind the admin charts.
type DashboardHandler struct {
	metrics *services.MetricsService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(metrics *services.MetricsService) *DashboardHandler {
	return &DashboardHandler{
		metrics: metrics,
	}
}

// RegisterRoutes registers the dashboard routes with the Fiber app.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard/metrics", h.HandleGetMetrics)
}

// HandleGetMetrics returns catalog totals and chart series.
func (h *DashboardHandler) HandleGetMetrics(c *fiber.Ctx) error {
	metrics, err := h.metrics.GetDashboardMetrics()
	if err != nil {
		log.Printf("Error computing dashboard metrics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute metrics",
		})
	}
	return c.JSON(metrics)
}
