package handler

import (
	"go-marketplace-toko/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetTokoStats returns product count, low stock count and stock valuation
// of the caller's store
// GET /api/v1/member/dashboard
func (h *DashboardHandler) GetTokoStats(c *fiber.Ctx) error {
	stats, err := h.service.TokoStats(getCaller(c))
	if err != nil {
		return respondError(c, "TokoStats", err, "Failed to fetch dashboard stats")
	}

	return c.JSON(fiber.Map{"data": stats})
}
