package handlers

import (
	"github.com/jmoiron/sqlx"

	"yuvax/internal/clock"
	"yuvax/internal/config"
	"yuvax/internal/repos"
	"yuvax/internal/services"
)

type Deps struct {
	CampaignHandler    *CampaignHandler
	ReservationHandler *ReservationHandler
	AdminHandler       *AdminHandler
	Reservations       *services.ReservationService
}

func NewDeps(db *sqlx.DB, cfg config.Config, clk clock.Clock) *Deps {
	campaignRepo := repos.NewCampaignRepo(db)
	resRepo := repos.NewReservationRepo(db)

	campaignSvc := services.NewCampaignService(campaignRepo, clk, cfg.UpcomingPage)
	resSvc := services.NewReservationService(campaignRepo, resRepo, clk,
		services.WithHoldTTL(cfg.HoldTTL))

	return &Deps{
		CampaignHandler:    &CampaignHandler{Campaigns: campaignSvc},
		ReservationHandler: &ReservationHandler{Res: resSvc},
		AdminHandler:       &AdminHandler{Campaigns: campaignSvc, ResRepo: resRepo},
		Reservations:       resSvc,
	}
}
