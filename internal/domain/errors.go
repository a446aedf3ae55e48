package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrReservationNotFound    = errors.New("reservation not found")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidPrice           = errors.New("invalid price")
	ErrInvalidWindow          = errors.New("invalid sale window")
	ErrInvalidStockAdjustment = errors.New("stock adjustment below sold count")
	ErrReservationExpired     = errors.New("reservation expired")
	ErrBusy                   = errors.New("campaign busy")
)

// NotActiveError reports a reserve attempt against a campaign that is not
// LIVE, carrying the derived status so the caller can explain why.
type NotActiveError struct {
	Status CampaignStatus
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("campaign not active: %s", e.Status)
}
