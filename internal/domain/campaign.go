package domain

import (
	"math"
	"time"
)

// CampaignStatus is derived from the sale window, the admin kill-switch and
// remaining stock. It is never stored.
type CampaignStatus string

const (
	StatusPending  CampaignStatus = "PENDING"
	StatusLive     CampaignStatus = "LIVE"
	StatusSoldOut  CampaignStatus = "SOLD_OUT"
	StatusEnded    CampaignStatus = "ENDED"
	StatusDisabled CampaignStatus = "DISABLED"
)

// Campaign is one time-boxed, stock-limited flash sale for a single product.
// ProductRef is owned by the external product catalog; this service never
// resolves or mutates product data.
type Campaign struct {
	ID            string
	ProductRef    string
	OriginalPrice float64
	SalePrice     float64
	StartTime     time.Time
	EndTime       time.Time
	TotalStock    int
	Sold          int
	Active        bool
	Featured      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Remaining is TotalStock minus Sold. The repo's guarded debit keeps it >= 0.
func (c Campaign) Remaining() int {
	return c.TotalStock - c.Sold
}

// DiscountPercent is round((1 - sale/original) * 100), half away from zero.
// Campaign validation rejects OriginalPrice == 0 at creation, so the division
// is always defined here.
func (c Campaign) DiscountPercent() int {
	if c.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((1 - c.SalePrice/c.OriginalPrice) * 100))
}

// StatusAt derives the campaign status at the given instant. The check order
// is fixed: the admin kill-switch beats everything, then the window beats
// stock so a stocked-out campaign outside its window reports the window
// state, not SOLD_OUT.
func (c Campaign) StatusAt(now time.Time) CampaignStatus {
	switch {
	case !c.Active:
		return StatusDisabled
	case now.Before(c.StartTime):
		return StatusPending
	case now.After(c.EndTime):
		return StatusEnded
	case c.Remaining() <= 0:
		return StatusSoldOut
	default:
		return StatusLive
	}
}
