package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "yuvax/internal/log"
	"yuvax/internal/repos"
	"yuvax/internal/services"
	"yuvax/internal/validate"
)

type AdminHandler struct {
	Campaigns *services.CampaignService
	ResRepo   *repos.ReservationRepo
}

type campaignCreateRequest struct {
	ProductRef    string  `json:"productRef"`
	OriginalPrice float64 `json:"originalPrice"`
	SalePrice     float64 `json:"salePrice"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	TotalStock    int     `json:"totalStock"`
	Featured      bool    `json:"featured"`
}

// POST /admin/campaigns
func (h *AdminHandler) CreateCampaign(c *fiber.Ctx) error {
	var req campaignCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	start, err1 := time.Parse(time.RFC3339, req.StartTime)
	end, err2 := time.Parse(time.RFC3339, req.EndTime)
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_window"})
	}

	view, err := h.Campaigns.Create(services.CampaignInput{
		ProductRef:    req.ProductRef,
		OriginalPrice: req.OriginalPrice,
		SalePrice:     req.SalePrice,
		StartTime:     start,
		EndTime:       end,
		TotalStock:    req.TotalStock,
		Featured:      req.Featured,
	})
	if err != nil {
		return writeErr(c, err)
	}
	applog.Audit(c, "admin.campaign.create", map[string]any{"campaign_id": view.ID, "product_ref": view.ProductRef})
	return c.Status(fiber.StatusCreated).JSON(campaignBody(view))
}

type campaignPatchRequest struct {
	ProductRef    *string  `json:"productRef"`
	OriginalPrice *float64 `json:"originalPrice"`
	SalePrice     *float64 `json:"salePrice"`
	StartTime     *string  `json:"startTime"`
	EndTime       *string  `json:"endTime"`
	TotalStock    *int     `json:"totalStock"`
	Active        *bool    `json:"active"`
	Featured      *bool    `json:"featured"`
}

// PATCH /admin/campaigns/:id
func (h *AdminHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}
	var req campaignPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	patch := services.CampaignPatch{
		ProductRef:    req.ProductRef,
		OriginalPrice: req.OriginalPrice,
		SalePrice:     req.SalePrice,
		TotalStock:    req.TotalStock,
		Active:        req.Active,
		Featured:      req.Featured,
	}
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_window"})
		}
		patch.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_window"})
		}
		patch.EndTime = &t
	}

	view, err := h.Campaigns.Update(id, patch)
	if err != nil {
		return writeErr(c, err)
	}
	applog.Audit(c, "admin.campaign.update", map[string]any{"campaign_id": id})
	return c.JSON(campaignBody(view))
}

// DELETE /admin/campaigns/:id
func (h *AdminHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}
	if err := h.Campaigns.Delete(id); err != nil {
		return writeErr(c, err)
	}
	applog.Audit(c, "admin.campaign.delete", map[string]any{"campaign_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /admin/campaigns
func (h *AdminHandler) ListCampaigns(c *fiber.Ctx) error {
	views, err := h.Campaigns.ListAll()
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(fiber.Map{"campaigns": campaignBodies(views)})
}

// GET /admin/reservations?campaignId=...
func (h *AdminHandler) ListReservations(c *fiber.Ctx) error {
	if cid := c.Query("campaignId"); cid != "" {
		id, ok := validate.ID(cid)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
		}
		list, err := h.ResRepo.ListByCampaign(id)
		if err != nil {
			return writeErr(c, err)
		}
		out := make([]reservationJSON, 0, len(list))
		for _, r := range list {
			out = append(out, reservationBody(r))
		}
		return c.JSON(fiber.Map{"reservations": out})
	}

	list, err := h.ResRepo.ListLatest(100)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]reservationJSON, 0, len(list))
	for _, r := range list {
		out = append(out, reservationBody(r))
	}
	return c.JSON(fiber.Map{"reservations": out})
}
