package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yuvax/internal/clock"
	"yuvax/internal/domain"
	"yuvax/internal/repos"
	"yuvax/internal/services"
)

func newCatalog(t *testing.T) (*services.CampaignService, *repos.CampaignRepo, *clock.Fixed) {
	t.Helper()
	db := memdb(t)
	campaignRepo := repos.NewCampaignRepo(db)
	clk := clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return services.NewCampaignService(campaignRepo, clk, 10), campaignRepo, clk
}

func liveInput(now time.Time) services.CampaignInput {
	return services.CampaignInput{
		ProductRef:    "prod-1",
		OriginalPrice: 1000,
		SalePrice:     750,
		StartTime:     now.Add(-time.Hour),
		EndTime:       now.Add(time.Hour),
		TotalStock:    10,
	}
}

func TestCampaignCreate_DerivesDiscount(t *testing.T) {
	svc, _, clk := newCatalog(t)

	view, err := svc.Create(liveInput(clk.Now()))
	require.NoError(t, err)

	assert.Equal(t, 25, view.DiscountPercent)
	assert.Equal(t, domain.StatusLive, view.Status)
	assert.Equal(t, 10, view.RemainingStock)
	assert.True(t, view.Active)
}

func TestCampaignCreate_Validation(t *testing.T) {
	svc, _, clk := newCatalog(t)
	now := clk.Now()

	tests := []struct {
		name   string
		mutate func(*services.CampaignInput)
		want   error
	}{
		{"zero original price", func(in *services.CampaignInput) { in.OriginalPrice = 0 }, domain.ErrInvalidPrice},
		{"negative sale price", func(in *services.CampaignInput) { in.SalePrice = -1 }, domain.ErrInvalidPrice},
		{"sale above original", func(in *services.CampaignInput) { in.SalePrice = 1500 }, domain.ErrInvalidPrice},
		{"missing product ref", func(in *services.CampaignInput) { in.ProductRef = "" }, domain.ErrInvalidPrice},
		{"window reversed", func(in *services.CampaignInput) { in.StartTime, in.EndTime = in.EndTime, in.StartTime }, domain.ErrInvalidWindow},
		{"negative stock", func(in *services.CampaignInput) { in.TotalStock = -1 }, domain.ErrInvalidStockAdjustment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := liveInput(now)
			tt.mutate(&in)
			_, err := svc.Create(in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// A zero sale price is a valid free giveaway.
	in := liveInput(now)
	in.SalePrice = 0
	view, err := svc.Create(in)
	require.NoError(t, err)
	assert.Equal(t, 100, view.DiscountPercent)
}

func TestCampaignUpdate_RecomputesDiscount(t *testing.T) {
	svc, _, clk := newCatalog(t)

	view, err := svc.Create(liveInput(clk.Now()))
	require.NoError(t, err)
	require.Equal(t, 25, view.DiscountPercent)

	// Discount follows the price change without any separate write.
	sale := 500.0
	updated, err := svc.Update(view.ID, services.CampaignPatch{SalePrice: &sale})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.DiscountPercent)
	assert.Equal(t, 500.0, updated.SalePrice)
}

func TestCampaignUpdate_StockGuard(t *testing.T) {
	svc, campaignRepo, clk := newCatalog(t)

	view, err := svc.Create(liveInput(clk.Now()))
	require.NoError(t, err)
	require.NoError(t, campaignRepo.Debit(view.ID, 7, clk.Now()))

	lower := 5
	_, err = svc.Update(view.ID, services.CampaignPatch{TotalStock: &lower})
	assert.ErrorIs(t, err, domain.ErrInvalidStockAdjustment)

	raise := 20
	updated, err := svc.Update(view.ID, services.CampaignPatch{TotalStock: &raise})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.TotalStock)
	assert.Equal(t, 13, updated.RemainingStock)
}

func TestCampaignUpdate_NotFound(t *testing.T) {
	svc, _, _ := newCatalog(t)
	active := false
	_, err := svc.Update("missing", services.CampaignPatch{Active: &active})
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestCampaignDelete(t *testing.T) {
	svc, _, clk := newCatalog(t)
	view, err := svc.Create(liveInput(clk.Now()))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(view.ID))
	_, err = svc.Get(view.ID)
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
	assert.ErrorIs(t, svc.Delete(view.ID), domain.ErrCampaignNotFound)
}

func TestCampaignListings(t *testing.T) {
	svc, _, clk := newCatalog(t)
	now := clk.Now()

	mk := func(start, end time.Time) services.CampaignView {
		in := liveInput(now)
		in.StartTime, in.EndTime = start, end
		view, err := svc.Create(in)
		require.NoError(t, err)
		return view
	}

	late := mk(now.Add(-time.Hour), now.Add(3*time.Hour))
	soon := mk(now.Add(-time.Hour), now.Add(time.Hour))
	up := mk(now.Add(time.Hour), now.Add(2*time.Hour))

	active, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 2)
	// Soonest-ending first, so the most urgent deal surfaces on top.
	assert.Equal(t, soon.ID, active[0].ID)
	assert.Equal(t, late.ID, active[1].ID)
	for _, v := range active {
		assert.Equal(t, domain.StatusLive, v.Status)
		assert.Positive(t, v.SecondsRemaining)
	}

	upcoming, err := svc.ListUpcoming()
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, up.ID, upcoming[0].ID)
	assert.Equal(t, domain.StatusPending, upcoming[0].Status)

	all, err := svc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
