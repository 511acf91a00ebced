package handlers

import (
	"formafusion-partners/internal/core/services"
	"formafusion-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the admin dashboard endpoint
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the admin dashboard aggregates
// @Summary Admin dashboard
// @Description Get platform totals, breakdowns by status, monthly volume and reseller rankings
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", stats)
}
