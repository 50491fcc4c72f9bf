package main

import (
	"context"
	"log"

	"ticketya/config"
	"ticketya/internal/database"
	"ticketya/internal/gateway"
	"ticketya/internal/handler"
	"ticketya/internal/middleware"
	"ticketya/internal/model"
	"ticketya/internal/qrtoken"
	"ticketya/internal/queue"
	"ticketya/internal/repository"
	"ticketya/internal/service"
	"ticketya/internal/worker"
	"ticketya/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	eventRepo := repository.NewEventRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	referralRepo := repository.NewReferralRepository(pool)
	validationRepo := repository.NewValidationRepository(pool)
	transferRepo := repository.NewTransferRepository(pool)
	txRunner := database.NewTxRunner(pool)

	// collaborators
	codec := qrtoken.NewCodec(cfg.QR.SecretKey)
	payments := gateway.NewHTTPPaymentClient(cfg.Gateway.BaseURL, cfg.Gateway.AccessToken)
	confirmations, err := queue.NewRedisStreamConfirmationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize confirmation queue: %v", err)
	}

	// services
	notificationURL := cfg.Gateway.PublicBaseURL + "/api/v1/webhooks/payments"
	orderService := service.NewOrderService(txRunner, orderRepo, ticketRepo, inventoryRepo,
		eventRepo, referralRepo, userRepo, codec, payments, notificationURL)
	ticketService := service.NewTicketService(ticketRepo)
	transferService := service.NewTransferService(txRunner, ticketRepo, userRepo, transferRepo, codec)
	admissionService := service.NewAdmissionService(txRunner, ticketRepo, eventRepo, userRepo, validationRepo, codec)
	eventService := service.NewEventService(eventRepo, inventoryRepo)
	userService := service.NewUserService(userRepo, codec)
	referralService := service.NewReferralService(referralRepo)
	sweeperService := service.NewSweeperService(txRunner, ticketRepo, orderRepo, inventoryRepo)

	// background work
	confirmationWorker := worker.NewConfirmationWorker(orderService, confirmations)
	if err := confirmationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start confirmation worker: %v", err)
	}
	if cfg.Sweep.Interval > 0 {
		go sweeperService.Run(ctx, cfg.Sweep.Interval)
	}

	router := gin.Default()
	router.Use(monitoring.HTTPMetrics())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// unauthenticated surface: gateway webhooks and referral link clicks
	handler.NewWebhookHandler(payments, confirmations).RegisterRoutes(api)
	handler.NewReferralHandler(referralService).RegisterRoutes(api)
	handler.NewEventHandler(eventService).RegisterRoutes(api)

	authed := api.Group("", middleware.RequireAuth(cfg.JWT.SecretKey))
	handler.NewOrderHandler(orderService).RegisterRoutes(authed)
	handler.NewTicketHandler(ticketService, transferService).RegisterRoutes(authed)
	handler.NewUserHandler(userService).RegisterRoutes(authed)

	door := authed.Group("", middleware.RequireRole(model.RolePortero, model.RoleOrganizer))
	handler.NewAdmissionHandler(admissionService).RegisterRoutes(door)

	internal := authed.Group("/internal", middleware.RequireRole(model.RoleAdmin))
	handler.NewSweepHandler(sweeperService).RegisterRoutes(internal)

	if err := router.Run(cfg.HTTP.Addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
