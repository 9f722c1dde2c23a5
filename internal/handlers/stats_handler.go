package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/services"
)

type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Admin(c *fiber.Ctx) error {
	resp, err := h.stats.AdminStats()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *StatsHandler) Supplier(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	resp, err := h.stats.SupplierStats(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *StatsHandler) Buyer(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	resp, err := h.stats.BuyerStats(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}
