package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	breakapp "github.com/ningscard/backend/internal/application/breakpool"
	catalogapp "github.com/ningscard/backend/internal/application/catalog"
	orderapp "github.com/ningscard/backend/internal/application/order"
	paymentapp "github.com/ningscard/backend/internal/application/payment"
	"github.com/ningscard/backend/internal/domain/shared"
	"github.com/ningscard/backend/internal/infrastructure/config"
	"github.com/ningscard/backend/internal/infrastructure/ecpay"
	"github.com/ningscard/backend/internal/infrastructure/lock"
	"github.com/ningscard/backend/internal/infrastructure/logger"
	"github.com/ningscard/backend/internal/infrastructure/notification"
	"github.com/ningscard/backend/internal/infrastructure/persistence"
	"github.com/ningscard/backend/internal/interfaces/http/handler"
	"github.com/ningscard/backend/internal/interfaces/http/middleware"
	"github.com/ningscard/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting card store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	lineRepo := persistence.NewGormOrderLineRepository(db.DB)
	breakRepo := persistence.NewGormBreakPoolRepository(db.DB)
	pendingRepo := persistence.NewGormPendingPaymentRepository(db.DB)

	// Ledger lock: Redis-backed when a shared instance is configured, so
	// multiple server replicas serialize on the same lock.
	var locker shared.Locker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		locker = lock.NewRedisLocker(redisClient)
		log.Info("Using Redis ledger lock", zap.String("addr", cfg.Redis.Addr()))
	} else {
		locker = lock.NewMutexLocker()
		log.Info("Using in-process ledger lock")
	}

	gateway := &ecpay.Config{
		MerchantID:    cfg.ECPay.MerchantID,
		HashKey:       cfg.ECPay.HashKey,
		HashIV:        cfg.ECPay.HashIV,
		ReturnURL:     cfg.ECPay.ReturnURL,
		ClientBackURL: cfg.ECPay.ClientBackURL,
		ChoosePayment: cfg.ECPay.ChoosePayment,
		IsSandbox:     cfg.ECPay.Sandbox,
	}
	if err := gateway.Validate(); err != nil {
		log.Warn("Payment gateway not fully configured, checkout will fail", zap.Error(err))
	}

	notifier := notification.NewEmailNotifier(cfg.Notification)

	// Application services
	mergeService := orderapp.NewMergeService(lineRepo, productRepo, locker, notifier, log)
	queryService := orderapp.NewQueryService(lineRepo)
	catalogService := catalogapp.NewService(productRepo, lineRepo)
	breakService := breakapp.NewService(breakRepo)
	checkoutService := paymentapp.NewCheckoutService(pendingRepo, lineRepo, breakRepo, gateway, locker)
	reconcileService := paymentapp.NewReconcileService(pendingRepo, lineRepo, breakRepo, gateway, locker, log)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
	)

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NewRouter(engine).
		Register(handler.NewCatalogHandler(catalogService)).
		Register(handler.NewOrderHandler(mergeService, queryService)).
		Register(handler.NewBreakPoolHandler(breakService)).
		Register(handler.NewPaymentHandler(checkoutService, reconcileService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
