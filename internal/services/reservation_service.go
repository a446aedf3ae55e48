package services

import (
	"time"

	"github.com/google/uuid"

	"yuvax/internal/clock"
	"yuvax/internal/domain"
	"yuvax/internal/repos"
)

const (
	defaultHoldTTL  = 10 * time.Minute
	defaultLockWait = 250 * time.Millisecond
)

// ReservationService is the only component that mutates a campaign's sold
// counter, and it does so through the repo's single-statement debit/credit.
// A per-campaign lock serializes reserve attempts so a hot campaign fails
// fast with Busy instead of queueing callers indefinitely.
type ReservationService struct {
	Campaigns *repos.CampaignRepo
	Res       *repos.ReservationRepo
	Clock     clock.Clock

	holdTTL  time.Duration
	lockWait time.Duration
	locks    *campaignLocks
}

type ReservationOption func(*ReservationService)

// WithHoldTTL overrides how long an unconfirmed reservation holds stock.
func WithHoldTTL(d time.Duration) ReservationOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// WithLockWait overrides the bounded wait for a campaign's lock.
func WithLockWait(d time.Duration) ReservationOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.lockWait = d
		}
	}
}

func NewReservationService(campaigns *repos.CampaignRepo, res *repos.ReservationRepo, clk clock.Clock, opts ...ReservationOption) *ReservationService {
	s := &ReservationService{
		Campaigns: campaigns,
		Res:       res,
		Clock:     clk,
		holdTTL:   defaultHoldTTL,
		lockWait:  defaultLockWait,
		locks:     newCampaignLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ReserveResult struct {
	Reservation    domain.Reservation
	RemainingStock int
	EffectivePrice float64
}

// Reserve takes quantity units from a LIVE campaign and holds them for the
// configured TTL. The debit is a guarded single statement, so even without
// the lock the ledger cannot oversell; the lock keeps the status check and
// the debit from interleaving with other attempts and gives bounded-wait
// Busy semantics.
func (s *ReservationService) Reserve(campaignID string, quantity int) (ReserveResult, error) {
	if quantity < 1 {
		return ReserveResult{}, domain.ErrInvalidQuantity
	}

	if err := s.locks.Acquire(campaignID, s.lockWait); err != nil {
		return ReserveResult{}, err
	}
	defer s.locks.Release(campaignID)

	now := s.Clock.Now()

	// Free any stock still held by expired reservations before judging
	// the campaign's status.
	if _, err := s.releaseExpiredForCampaign(campaignID, now); err != nil {
		return ReserveResult{}, err
	}

	c, err := s.Campaigns.Get(campaignID)
	if err != nil {
		return ReserveResult{}, err
	}
	if st := c.StatusAt(now); st != domain.StatusLive {
		return ReserveResult{}, &domain.NotActiveError{Status: st}
	}
	if quantity > c.Remaining() {
		return ReserveResult{}, domain.ErrInsufficientStock
	}

	if err := s.Campaigns.Debit(campaignID, quantity, now); err != nil {
		return ReserveResult{}, err
	}

	res := domain.Reservation{
		ID:          uuid.NewString(),
		CampaignID:  campaignID,
		Quantity:    quantity,
		UnitPrice:   c.SalePrice,
		Status:      domain.ReservationPending,
		RequestedAt: now,
		ExpiresAt:   now.Add(s.holdTTL),
	}
	if err := s.Res.Create(res); err != nil {
		// Hand the units back; the debit must not outlive a failed hold.
		_ = s.Campaigns.Credit(campaignID, quantity, now)
		return ReserveResult{}, err
	}

	return ReserveResult{
		Reservation:    res,
		RemainingStock: c.Remaining() - quantity,
		EffectivePrice: c.SalePrice,
	}, nil
}

// Confirm moves a reservation to CONFIRMED. Idempotent: confirming an
// already-confirmed reservation succeeds without touching the ledger.
// A reservation past its TTL is released first and reported expired.
func (s *ReservationService) Confirm(reservationID string) (domain.Reservation, error) {
	res, err := s.Res.Get(reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}

	switch res.Status {
	case domain.ReservationConfirmed:
		return res, nil
	case domain.ReservationReleased:
		return domain.Reservation{}, domain.ErrReservationExpired
	}

	now := s.Clock.Now()
	if res.ExpiredAt(now) {
		// Lazy expiry: credit stock back exactly once, then refuse.
		won, err := s.Res.TransitionStatus(res.ID, domain.ReservationPending, domain.ReservationReleased)
		if err != nil {
			return domain.Reservation{}, err
		}
		if won {
			if err := s.Campaigns.Credit(res.CampaignID, res.Quantity, now); err != nil {
				return domain.Reservation{}, err
			}
			return domain.Reservation{}, domain.ErrReservationExpired
		}
		// A concurrent path resolved it; a concurrent confirm wins idempotently.
		cur, err := s.Res.Get(res.ID)
		if err != nil {
			return domain.Reservation{}, err
		}
		if cur.Status == domain.ReservationConfirmed {
			return cur, nil
		}
		return domain.Reservation{}, domain.ErrReservationExpired
	}

	won, err := s.Res.TransitionStatus(res.ID, domain.ReservationPending, domain.ReservationConfirmed)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !won {
		cur, err := s.Res.Get(res.ID)
		if err != nil {
			return domain.Reservation{}, err
		}
		if cur.Status == domain.ReservationConfirmed {
			return cur, nil
		}
		return domain.Reservation{}, domain.ErrReservationExpired
	}

	res.Status = domain.ReservationConfirmed
	return res, nil
}

// Release moves a PENDING reservation to RELEASED and credits the campaign.
// Releasing an already-released or confirmed reservation is a no-op success;
// unwinding a confirmed purchase belongs to the order/returns flow, not here.
func (s *ReservationService) Release(reservationID string) (domain.Reservation, error) {
	res, err := s.Res.Get(reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if res.Status != domain.ReservationPending {
		return res, nil
	}

	won, err := s.Res.TransitionStatus(res.ID, domain.ReservationPending, domain.ReservationReleased)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !won {
		// Concurrent confirm/sweep resolved it first.
		return s.Res.Get(res.ID)
	}

	if err := s.Campaigns.Credit(res.CampaignID, res.Quantity, s.Clock.Now()); err != nil {
		return domain.Reservation{}, err
	}
	res.Status = domain.ReservationReleased
	return res, nil
}

// Get returns one reservation (boundary lookups and tests).
func (s *ReservationService) Get(reservationID string) (domain.Reservation, error) {
	return s.Res.Get(reservationID)
}

// ReleaseExpired releases every PENDING reservation past its TTL, crediting
// stock back exactly once per reservation. The status-transition guard makes
// it idempotent and safe against concurrent confirm/release; losing a race
// is expected and counts as a no-op.
func (s *ReservationService) ReleaseExpired(limit int) (int, error) {
	now := s.Clock.Now()
	due, err := s.Res.ListExpired(now, limit)
	if err != nil {
		return 0, err
	}
	released := 0
	for _, res := range due {
		won, err := s.Res.TransitionStatus(res.ID, domain.ReservationPending, domain.ReservationReleased)
		if err != nil {
			return released, err
		}
		if !won {
			continue
		}
		if err := s.Campaigns.Credit(res.CampaignID, res.Quantity, now); err != nil {
			return released, err
		}
		released++
	}
	return released, nil
}

func (s *ReservationService) releaseExpiredForCampaign(campaignID string, now time.Time) (int, error) {
	due, err := s.Res.ListExpiredByCampaign(campaignID, now)
	if err != nil {
		return 0, err
	}
	released := 0
	for _, res := range due {
		won, err := s.Res.TransitionStatus(res.ID, domain.ReservationPending, domain.ReservationReleased)
		if err != nil {
			return released, err
		}
		if !won {
			continue
		}
		if err := s.Campaigns.Credit(campaignID, res.Quantity, now); err != nil {
			return released, err
		}
		released++
	}
	return released, nil
}
