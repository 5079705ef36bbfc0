package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"chatshop/internal/bot"
	"chatshop/internal/config"
	"chatshop/internal/http/handlers"
	applog "chatshop/internal/log"
	"chatshop/internal/media"
	"chatshop/internal/repos"
	"chatshop/internal/services"
	"chatshop/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	store, err := media.NewFSStore(cfg.MediaDir)
	if err != nil {
		log.Fatal(err)
	}

	buyerRepo := repos.NewBuyerRepo(db)
	catalogRepo := repos.NewCatalogRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	tg, err := telegram.New(cfg.BotToken, buyerRepo)
	if err != nil {
		log.Fatal(err)
	}

	delivery := services.NewDelivery(store, tg, services.DeliveryConfig{
		BatchSize:   cfg.MediaBatchSize,
		Retries:     cfg.SendRetries,
		RetryDelay:  cfg.RetryDelay,
		GroupDelay:  cfg.GroupDelay,
		SendTimeout: cfg.SendTimeout,
	})
	dispatcher := services.NewDispatcher(catalogRepo, tg, delivery, cfg.OperatorChatID, cfg.QueueSize)
	orderSvc := services.NewOrderService(buyerRepo, catalogRepo, orderRepo, dispatcher)

	tg.Router = &bot.Router{
		Buyers:       buyerRepo,
		Catalog:      catalogRepo,
		Orders:       orderSvc,
		OrderRepo:    orderRepo,
		Media:        store,
		Delivery:     delivery,
		Transport:    tg,
		OperatorChat: cfg.OperatorChatID,
		PageSize:     cfg.PageSize,
		SupportURL:   "https://t.me/tech_support_bot",
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background contexts: one worker for paid notifications, one polling
	// loop for chat updates. Both live for the whole process.
	go dispatcher.Run(ctx)
	go tg.Start(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error("server.error", err, map[string]any{"path": c.Path()})
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, orderSvc)

	api := app.Group("/api/v1")
	api.Post("/orders", deps.OrderHandler.Create)
	api.Get("/orders/:id", deps.OrderHandler.Get)

	admin := app.Group("/admin", handlers.RequireOperator(cfg.OperatorKeyHash))
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	log.Fatal(app.Listen(cfg.HTTPAddr))
}
