package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationReleased  ReservationStatus = "RELEASED"
)

// Reservation is a temporary hold against a campaign's stock, created when a
// checkout starts. It resolves to CONFIRMED when the order is placed or to
// RELEASED when the checkout is abandoned or the hold expires.
type Reservation struct {
	ID          string
	CampaignID  string
	Quantity    int
	UnitPrice   float64 // sale price captured at reserve time
	Status      ReservationStatus
	RequestedAt time.Time
	ExpiresAt   time.Time
}

// ExpiredAt reports whether an unconfirmed hold has outlived its TTL.
func (r Reservation) ExpiredAt(now time.Time) bool {
	return r.Status == ReservationPending && now.After(r.ExpiresAt)
}
