package services

import (
	"time"

	"github.com/google/uuid"

	"yuvax/internal/clock"
	"yuvax/internal/domain"
	"yuvax/internal/repos"
	"yuvax/internal/validate"
)

// CampaignService owns campaign records: creation, admin patches and the
// storefront listings. It never touches sold counters; those belong to the
// ReservationService.
type CampaignService struct {
	Campaigns    *repos.CampaignRepo
	Clock        clock.Clock
	UpcomingPage int
}

func NewCampaignService(campaigns *repos.CampaignRepo, clk clock.Clock, upcomingPage int) *CampaignService {
	if upcomingPage < 1 {
		upcomingPage = 10
	}
	return &CampaignService{Campaigns: campaigns, Clock: clk, UpcomingPage: upcomingPage}
}

type CampaignInput struct {
	ProductRef    string
	OriginalPrice float64
	SalePrice     float64
	StartTime     time.Time
	EndTime       time.Time
	TotalStock    int
	Featured      bool
}

// CampaignPatch carries optional admin updates; nil fields keep the current
// value. Sold and remaining stock are deliberately absent: they are outputs
// of the reservation path, never inputs.
type CampaignPatch struct {
	ProductRef    *string
	OriginalPrice *float64
	SalePrice     *float64
	StartTime     *time.Time
	EndTime       *time.Time
	TotalStock    *int
	Active        *bool
	Featured      *bool
}

// CampaignView is a campaign plus its derived fields at one instant.
type CampaignView struct {
	domain.Campaign
	Status           domain.CampaignStatus
	RemainingStock   int
	DiscountPercent  int
	SecondsRemaining int64
}

func (s *CampaignService) view(c domain.Campaign, now time.Time) CampaignView {
	v := CampaignView{
		Campaign:        c,
		Status:          c.StatusAt(now),
		RemainingStock:  c.Remaining(),
		DiscountPercent: c.DiscountPercent(),
	}
	if remain := c.EndTime.Sub(now); v.Status == domain.StatusLive && remain > 0 {
		v.SecondsRemaining = int64(remain.Seconds())
	}
	return v
}

func (s *CampaignService) Create(in CampaignInput) (CampaignView, error) {
	if in.ProductRef == "" || !validate.Prices(in.OriginalPrice, in.SalePrice) {
		return CampaignView{}, domain.ErrInvalidPrice
	}
	if !validate.Window(in.StartTime, in.EndTime) {
		return CampaignView{}, domain.ErrInvalidWindow
	}
	if !validate.Stock(in.TotalStock) {
		return CampaignView{}, domain.ErrInvalidStockAdjustment
	}

	now := s.Clock.Now()
	c := domain.Campaign{
		ID:            uuid.NewString(),
		ProductRef:    in.ProductRef,
		OriginalPrice: in.OriginalPrice,
		SalePrice:     in.SalePrice,
		StartTime:     in.StartTime.UTC(),
		EndTime:       in.EndTime.UTC(),
		TotalStock:    in.TotalStock,
		Active:        true,
		Featured:      in.Featured,
		CreatedAt:     now,
	}
	if err := s.Campaigns.Create(c); err != nil {
		return CampaignView{}, err
	}
	return s.view(c, now), nil
}

func (s *CampaignService) Update(id string, patch CampaignPatch) (CampaignView, error) {
	c, err := s.Campaigns.Get(id)
	if err != nil {
		return CampaignView{}, err
	}

	if patch.ProductRef != nil {
		c.ProductRef = *patch.ProductRef
	}
	if patch.OriginalPrice != nil {
		c.OriginalPrice = *patch.OriginalPrice
	}
	if patch.SalePrice != nil {
		c.SalePrice = *patch.SalePrice
	}
	if patch.StartTime != nil {
		c.StartTime = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		c.EndTime = patch.EndTime.UTC()
	}
	if patch.TotalStock != nil {
		c.TotalStock = *patch.TotalStock
	}
	if patch.Active != nil {
		c.Active = *patch.Active
	}
	if patch.Featured != nil {
		c.Featured = *patch.Featured
	}

	if c.ProductRef == "" || !validate.Prices(c.OriginalPrice, c.SalePrice) {
		return CampaignView{}, domain.ErrInvalidPrice
	}
	if !validate.Window(c.StartTime, c.EndTime) {
		return CampaignView{}, domain.ErrInvalidWindow
	}
	if !validate.Stock(c.TotalStock) || c.TotalStock < c.Sold {
		return CampaignView{}, domain.ErrInvalidStockAdjustment
	}

	now := s.Clock.Now()
	// The repo re-checks sold <= total_stock in the same statement, so a
	// concurrent reserve between our read and this write cannot sneak the
	// total below sold.
	if err := s.Campaigns.Update(c, now); err != nil {
		return CampaignView{}, err
	}
	updated, err := s.Campaigns.Get(id)
	if err != nil {
		return CampaignView{}, err
	}
	return s.view(updated, now), nil
}

func (s *CampaignService) Delete(id string) error {
	return s.Campaigns.Delete(id)
}

func (s *CampaignService) Get(id string) (CampaignView, error) {
	c, err := s.Campaigns.Get(id)
	if err != nil {
		return CampaignView{}, err
	}
	return s.view(c, s.Clock.Now()), nil
}

// ListActive returns LIVE campaigns, soonest-ending first.
func (s *CampaignService) ListActive() ([]CampaignView, error) {
	now := s.Clock.Now()
	list, err := s.Campaigns.ListLive(now)
	if err != nil {
		return nil, err
	}
	return s.views(list, now), nil
}

// ListUpcoming returns PENDING campaigns, soonest-starting first, bounded to
// one page.
func (s *CampaignService) ListUpcoming() ([]CampaignView, error) {
	now := s.Clock.Now()
	list, err := s.Campaigns.ListUpcoming(now, s.UpcomingPage)
	if err != nil {
		return nil, err
	}
	return s.views(list, now), nil
}

// ListAll returns every campaign with derived status (admin view).
func (s *CampaignService) ListAll() ([]CampaignView, error) {
	list, err := s.Campaigns.ListAll()
	if err != nil {
		return nil, err
	}
	return s.views(list, s.Clock.Now()), nil
}

func (s *CampaignService) views(list []domain.Campaign, now time.Time) []CampaignView {
	out := make([]CampaignView, 0, len(list))
	for _, c := range list {
		out = append(out, s.view(c, now))
	}
	return out
}
