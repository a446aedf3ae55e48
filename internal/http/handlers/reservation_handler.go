package handlers

import (
	"github.com/gofiber/fiber/v2"

	"yuvax/internal/domain"
	applog "yuvax/internal/log"
	"yuvax/internal/services"
	"yuvax/internal/validate"
)

type ReservationHandler struct {
	Res *services.ReservationService
}

type reserveRequest struct {
	Quantity int `json:"quantity"`
}

// POST /api/v1/campaigns/:id/reserve
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid campaign id"})
	}

	var req reserveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if !validate.Quantity(req.Quantity) {
		return writeErr(c, domain.ErrInvalidQuantity)
	}

	result, err := h.Res.Reserve(id, req.Quantity)
	if err != nil {
		return writeErr(c, err)
	}

	applog.Info(c, "reserve.ok", map[string]any{
		"campaign_id":    id,
		"reservation_id": result.Reservation.ID,
		"quantity":       req.Quantity,
		"remaining":      result.RemainingStock,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reservation":    reservationBody(result.Reservation),
		"remainingStock": result.RemainingStock,
		"effectivePrice": result.EffectivePrice,
	})
}

// POST /api/v1/reservations/:id/confirm
func (h *ReservationHandler) Confirm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reservation id"})
	}
	res, err := h.Res.Confirm(id)
	if err != nil {
		return writeErr(c, err)
	}
	applog.Info(c, "confirm.ok", map[string]any{"reservation_id": id})
	return c.JSON(fiber.Map{"reservation": reservationBody(res)})
}

// POST /api/v1/reservations/:id/release
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reservation id"})
	}
	res, err := h.Res.Release(id)
	if err != nil {
		return writeErr(c, err)
	}
	applog.Info(c, "release.ok", map[string]any{"reservation_id": id})
	return c.JSON(fiber.Map{"reservation": reservationBody(res)})
}
