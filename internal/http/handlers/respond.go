package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"yuvax/internal/domain"
	applog "yuvax/internal/log"
	"yuvax/internal/services"
)

// writeErr maps domain failures to boundary status codes. Unknown errors are
// logged and surfaced as a generic 500 so internals never leak.
func writeErr(c *fiber.Ctx, err error) error {
	var notActive *domain.NotActiveError
	switch {
	case errors.Is(err, domain.ErrCampaignNotFound), errors.Is(err, domain.ErrReservationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	case errors.As(err, &notActive):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "campaign_not_active",
			"status": notActive.Status,
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "insufficient_stock"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_quantity"})
	case errors.Is(err, domain.ErrInvalidPrice):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_price"})
	case errors.Is(err, domain.ErrInvalidWindow):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_window"})
	case errors.Is(err, domain.ErrInvalidStockAdjustment):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_stock_adjustment"})
	case errors.Is(err, domain.ErrReservationExpired):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "reservation_expired"})
	case errors.Is(err, domain.ErrBusy):
		c.Set("Retry-After", "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "busy"})
	default:
		applog.Error(c, "server.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
	}
}

// campaignJSON is the boundary shape of a campaign plus its derived fields.
type campaignJSON struct {
	ID               string  `json:"id"`
	ProductRef       string  `json:"productRef"`
	OriginalPrice    float64 `json:"originalPrice"`
	SalePrice        float64 `json:"salePrice"`
	DiscountPercent  int     `json:"discountPercent"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	TotalStock       int     `json:"totalStock"`
	Sold             int     `json:"sold"`
	RemainingStock   int     `json:"remainingStock"`
	Active           bool    `json:"active"`
	Featured         bool    `json:"featured"`
	Status           string  `json:"status"`
	SecondsRemaining int64   `json:"secondsRemaining,omitempty"`
}

func campaignBody(v services.CampaignView) campaignJSON {
	return campaignJSON{
		ID:               v.ID,
		ProductRef:       v.ProductRef,
		OriginalPrice:    v.OriginalPrice,
		SalePrice:        v.SalePrice,
		DiscountPercent:  v.DiscountPercent,
		StartTime:        v.StartTime.UTC().Format(time.RFC3339),
		EndTime:          v.EndTime.UTC().Format(time.RFC3339),
		TotalStock:       v.TotalStock,
		Sold:             v.Sold,
		RemainingStock:   v.RemainingStock,
		Active:           v.Active,
		Featured:         v.Featured,
		Status:           string(v.Status),
		SecondsRemaining: v.SecondsRemaining,
	}
}

func campaignBodies(views []services.CampaignView) []campaignJSON {
	out := make([]campaignJSON, 0, len(views))
	for _, v := range views {
		out = append(out, campaignBody(v))
	}
	return out
}

type reservationJSON struct {
	ID          string  `json:"id"`
	CampaignID  string  `json:"campaignId"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Status      string  `json:"status"`
	RequestedAt string  `json:"requestedAt"`
	ExpiresAt   string  `json:"expiresAt"`
}

func reservationBody(r domain.Reservation) reservationJSON {
	return reservationJSON{
		ID:          r.ID,
		CampaignID:  r.CampaignID,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt.UTC().Format(time.RFC3339),
		ExpiresAt:   r.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
