package main

import (
	"context"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rookgm/marketplace/config"
	"github.com/rookgm/marketplace/internal/auth"
	handler "github.com/rookgm/marketplace/internal/handler/http"
	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/middleware"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/razorpay"
	"github.com/rookgm/marketplace/internal/repository"
	"github.com/rookgm/marketplace/internal/repository/postgres"
	"github.com/rookgm/marketplace/internal/service"
	"github.com/rookgm/marketplace/internal/tracking"
	"github.com/rookgm/marketplace/internal/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(cfg.AuthTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// payment gateway
	gateway := razorpay.NewBreakerClient(
		razorpay.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout),
		razorpay.DefaultBreakerSettings(),
	)

	// dependency injection
	// repositories
	orderRepo := repository.NewOrderRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	locationRepo := repository.NewLocationRepository(db)

	// notification
	notificationService := service.NewNotificationService(notificationRepo)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// settlement
	settlementService := service.NewSettlementService(db, orderRepo, settlementRepo, vendorRepo,
		gateway, notificationService, cfg.Currency)
	settlementHandler := handler.NewSettlementHandler(settlementService)

	// order
	hub := tracking.NewHub()
	orderService := service.NewOrderService(db, orderRepo, productRepo, cartRepo, vendorRepo,
		gateway, notificationService, cfg.Currency, cfg.PaymentLinkCallbackURL)
	webhookService := service.NewWebhookService(db, orderRepo, productRepo, cartRepo, gateway,
		notificationService, cfg.RazorpayWebhookSecret)
	orderHandler := handler.NewOrderHandler(orderService, webhookService, hub)
	webhookHandler := handler.NewWebhookHandler(webhookService)

	// vendor
	vendorService := service.NewVendorService(vendorRepo, gateway, notificationService)
	vendorHandler := handler.NewVendorHandler(vendorService)

	// tracking
	trackingService := service.NewTrackingService(orderService, locationRepo)
	trackingHandler := handler.NewTrackingHandler(trackingService, hub, nil)

	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Use(middleware.Logging(logger.Log))

	router.Handle("/metrics", promhttp.Handler())
	router.With(httprate.LimitByIP(cfg.WebhookRateLimit, time.Minute)).
		Post("/api/webhooks/razorpay", webhookHandler.Razorpay())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))

		group.Post("/api/orders/checkout", orderHandler.Checkout())
		group.Get("/api/orders", orderHandler.ListUserOrders())
		group.Get("/api/orders/{id}", orderHandler.GetOrder())
		group.Put("/api/orders/{id}/status", orderHandler.UpdateStatus())
		group.Post("/api/orders/{id}/verify-payment", orderHandler.VerifyPayment())
		group.Get("/ws/tracking/orders/{id}", trackingHandler.TrackOrder())

		// vendor operators and marketplace operators
		group.Group(func(group chi.Router) {
			group.Use(handler.RequireRole(models.RoleOwner, models.RoleStaff, models.RoleAdmin))

			group.Put("/api/orders/{id}/delivery-partner", orderHandler.AssignDeliveryPartner())

			group.Get("/api/settlements", settlementHandler.ListSettlements())
			group.Get("/api/settlements/{id}", settlementHandler.GetSettlement())
			group.Get("/api/settlements/{id}/transfer", settlementHandler.GetTransferStatus())
			group.Get("/api/settlements/summary/{vendor_id}", settlementHandler.GetVendorSummary())

			group.Post("/api/vendors", vendorHandler.Register())
			group.Get("/api/vendors/{id}", vendorHandler.GetVendor())
			group.Post("/api/vendors/{id}/linked-account", vendorHandler.CreateLinkedAccount())
			group.Post("/api/vendors/{id}/kyc", vendorHandler.SubmitKYC())

			group.Get("/api/notifications", notificationHandler.ListNotifications())
			group.Post("/api/notifications/read", notificationHandler.MarkAllRead())
		})

		// marketplace operators only
		group.Group(func(group chi.Router) {
			group.Use(handler.RequireRole(models.RoleOwner, models.RoleStaff))

			group.Post("/api/settlements/initiate/{order_id}", settlementHandler.InitiateSettlement())
			group.Post("/api/settlements/{id}/retry", settlementHandler.RetrySettlement())
			group.Post("/api/settlements/{id}/reverse", settlementHandler.ReverseSettlement())
			group.Post("/api/settlements/auto-settle", settlementHandler.AutoSettle())

			group.Post("/api/vendors/{id}/approve", vendorHandler.ApproveKYC())
			group.Put("/api/vendors/{id}/status", vendorHandler.SetAccountStatus())
		})
	})

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweeper := worker.NewSettlementSweeper(settlementService, cfg.AutoSettleInterval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return hub.RunWithContext(gctx)
	})

	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
	}
}
