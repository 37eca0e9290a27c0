package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/config"
	"github.com/Abhi-0930/food-delivery-platform/internal/auth"
	handler "github.com/Abhi-0930/food-delivery-platform/internal/handler/http"
	"github.com/Abhi-0930/food-delivery-platform/internal/logger"
	"github.com/Abhi-0930/food-delivery-platform/internal/middleware"
	"github.com/Abhi-0930/food-delivery-platform/internal/reconcile"
	"github.com/Abhi-0930/food-delivery-platform/internal/repository"
	"github.com/Abhi-0930/food-delivery-platform/internal/repository/postgres"
	"github.com/Abhi-0930/food-delivery-platform/internal/service"
	"github.com/Abhi-0930/food-delivery-platform/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	deliveryFee, err := decimal.NewFromString(cfg.DeliveryFee)
	if err != nil {
		logger.Log.Fatal("Error parsing delivery fee", zap.Error(err))
	}

	token := auth.NewAuthToken([]byte(cfg.JWTSecret))

	// dependency injection
	orderRepo := repository.NewOrderRepository(db)
	reconciler := reconcile.NewReconciler(orderRepo, cfg.Lookback, cfg.DupWindow)
	orderService := service.NewOrderService(orderRepo, reconciler, deliveryFee, cfg.RetentionAdmin, cfg.RetentionUser)
	orderHandler := handler.NewOrderHandler(orderService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	// payment collaborator callback
	router.Post("/api/order/verify", orderHandler.VerifyOrder())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Post("/api/order/place", orderHandler.PlaceOrder())
		group.Post("/api/order/placecod", orderHandler.PlaceOrderCOD())
		group.Get("/api/order/userorders", orderHandler.ListUserOrders())

		// admin panel
		group.Group(func(admin chi.Router) {
			admin.Use(handler.AdminMiddleware())
			admin.Get("/api/order/list", orderHandler.ListOrders())
			admin.Post("/api/order/status", orderHandler.UpdateOrderStatus())
		})
	})

	// the purge retention must cover both views, take the longest
	retention := cfg.RetentionAdmin
	if cfg.RetentionUser > retention {
		retention = cfg.RetentionUser
	}

	var sweep *worker.SweepWorker
	if cfg.SweepInterval > 0 {
		sweep = worker.NewSweepWorker(reconciler, cfg.SweepInterval, retention)
		sweep.Start(ctx)
	}

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Error starting server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutdown server")
	if sweep != nil {
		sweep.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Error shutdown server", zap.Error(err))
	}
	logger.Log.Info("Server stopped")
}
