package handlers

import (
	"github.com/gofiber/fiber/v2"

	"yuvax/internal/services"
	"yuvax/internal/validate"
)

type CampaignHandler struct {
	Campaigns *services.CampaignService
}

// GET /api/v1/campaigns
func (h *CampaignHandler) ListActive(c *fiber.Ctx) error {
	views, err := h.Campaigns.ListActive()
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"campaigns": campaignBodies(views)})
}

// GET /api/v1/campaigns/upcoming
func (h *CampaignHandler) ListUpcoming(c *fiber.Ctx) error {
	views, err := h.Campaigns.ListUpcoming()
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"campaigns": campaignBodies(views)})
}

// GET /api/v1/campaigns/:id
func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}
	view, err := h.Campaigns.Get(id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(campaignBody(view))
}
