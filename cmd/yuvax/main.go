package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"yuvax/internal/clock"
	"yuvax/internal/config"
	"yuvax/internal/http/handlers"
	applog "yuvax/internal/log"
	"yuvax/internal/repos"
	"yuvax/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	clk := clock.NewSystem()
	deps := handlers.NewDeps(db, cfg, clk)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Public API ----------
	api := app.Group("/api/v1")
	api.Get("/campaigns", deps.CampaignHandler.ListActive)
	api.Get("/campaigns/upcoming", deps.CampaignHandler.ListUpcoming)
	api.Get("/campaigns/:id", deps.CampaignHandler.Get)

	// Reserve is the hot endpoint during a drop; throttle it separately.
	reserveLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|reserve"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.reserve.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/campaigns/:id/reserve", reserveLimiter, deps.ReservationHandler.Reserve)
	api.Post("/reservations/:id/confirm", deps.ReservationHandler.Confirm)
	api.Post("/reservations/:id/release", deps.ReservationHandler.Release)

	// ---------- Admin ----------
	admin := app.Group("/admin", handlers.RequireAdmin(cfg.AdminToken))
	admin.Get("/campaigns", deps.AdminHandler.ListCampaigns)
	admin.Post("/campaigns", deps.AdminHandler.CreateCampaign)
	admin.Patch("/campaigns/:id", deps.AdminHandler.UpdateCampaign)
	admin.Delete("/campaigns/:id", deps.AdminHandler.DeleteCampaign)
	admin.Get("/reservations", deps.AdminHandler.ListReservations)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	})

	// Background release of expired holds
	sweeper := services.NewSweeper(deps.Reservations, cfg.SweepInterval)
	sweeper.Start()

	log.Fatal(app.Listen(":" + cfg.Port))
}
