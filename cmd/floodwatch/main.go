package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/floodwatch-br/floodwatch/internal/api/http"
	"github.com/floodwatch-br/floodwatch/internal/chat"
	"github.com/floodwatch-br/floodwatch/internal/config"
	"github.com/floodwatch-br/floodwatch/internal/mapproxy"
	"github.com/floodwatch-br/floodwatch/internal/mapview"
	"github.com/floodwatch-br/floodwatch/internal/risk"
	"github.com/floodwatch-br/floodwatch/internal/scheduler"
	"github.com/floodwatch-br/floodwatch/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Occurrence dataset is loaded exactly once; a missing or malformed
	// source, or one that filters down to nothing, aborts startup.
	memStore, err := store.LoadCSV(cfg.DataFile)
	if err != nil {
		log.Fatalf("failed to load occurrence data: %v", err)
	}
	log.Printf("loaded %d occurrence records from %s", len(memStore.Records()), cfg.DataFile)

	availability, err := risk.ComputeAvailability(memStore.Records())
	if err != nil {
		log.Fatalf("failed to compute date availability: %v", err)
	}
	log.Printf("dataset covers %s through %s",
		risk.DayKey(availability.MinDate), risk.DayKey(availability.MaxDate))

	// Map derivation over the loaded records.
	viewModel := mapview.New(memStore)

	// Chat sessions plus the recurring resolution tick.
	chatManager := chat.NewManager(cfg.ChatResolveDelay)
	sched := scheduler.New(chatManager, cfg.ChatTickInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Shared HTTP client for outbound Mapbox calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	mapbox := mapproxy.New(httpClient, cfg.MapboxAccessToken, cfg.MapboxStyle)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "floodwatch",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "floodwatch",
		})
	})

	// Page and API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Availability: availability,
		ViewModel:    viewModel,
		Chat:         chatManager,
		Mapbox:       mapbox,
	})

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
