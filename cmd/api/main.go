package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/talia/go-boutique-api/internal/config"
	"github.com/talia/go-boutique-api/internal/handler"
	"github.com/talia/go-boutique-api/internal/middleware"
	"github.com/talia/go-boutique-api/internal/repository"
	"github.com/talia/go-boutique-api/internal/service"
	"github.com/talia/go-boutique-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	if err := repository.Migrate(ctx, dbPool); err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		log.Error("create upload dir", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	favoriteRepo := repository.NewFavoriteRepository(dbPool)
	ratingRepo := repository.NewRatingRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogSvc := service.NewCatalogService(categoryRepo, redisClient)
	cartSvc := service.NewCartService(cartRepo, categoryRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo)
	paymentSvc := service.NewPaymentService(orderRepo, service.SimulatedGateway{SuccessRate: cfg.Payment.SuccessRate}, amqpCh)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, categoryRepo)
	ratingSvc := service.NewRatingService(ratingRepo, categoryRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	categoryH := handler.NewCategoryHandler(catalogSvc, cfg.Uploads)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc, orderSvc)
	favoriteH := handler.NewFavoriteHandler(favoriteSvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	notifyWorker := worker.NewNotifyWorker(amqpCh, orderRepo, redisClient, worker.LogNotifier{Log: log}, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)
	router.Static(cfg.Uploads.URLPrefix, cfg.Uploads.Dir)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", authH.Logout)
		auth.GET("/address", authRequired, authH.GetAddress)
		auth.PUT("/address", authRequired, authH.UpdateAddress)

		categories := v1.Group("/categories")
		categories.GET("", categoryH.List)
		categories.GET("/grouped", categoryH.Grouped)
		categories.POST("/names", categoryH.ByName)
		categories.GET("/:id", categoryH.Get)

		admin := categories.Group("", authRequired, middleware.AdminOnly())
		admin.POST("", categoryH.Create)
		admin.PUT("/:id", categoryH.Update)
		admin.DELETE("/:id", categoryH.Delete)

		cart := v1.Group("/cart", authRequired)
		cart.GET("", cartH.Get)
		cart.GET("/count", cartH.Count)
		cart.POST("", cartH.Add)
		cart.POST("/checkout", orderH.Checkout)
		cart.PUT("/:id", cartH.Update)
		cart.DELETE("/:id", cartH.Remove)
		cart.PUT("/category/:categoryId", cartH.UpdateByCategory)
		cart.DELETE("/category/:categoryId", cartH.RemoveByCategory)
		cart.DELETE("", cartH.Clear)

		orders := v1.Group("/orders", authRequired)
		orders.POST("", orderH.Checkout)
		orders.GET("", orderH.List)
		orders.GET("/:id", orderH.Get)
		orders.PUT("/:id/cancel", orderH.Cancel)
		orders.POST("/payment", paymentH.Process)

		payment := v1.Group("/payment", authRequired)
		payment.POST("/process", paymentH.Process)
		payment.GET("/screen/:orderId", paymentH.Screen)
		payment.GET("/success/:orderId", paymentH.Success)
		payment.GET("/failure/:orderId", paymentH.Failure)

		favorites := v1.Group("/favorites", authRequired)
		favorites.GET("", favoriteH.List)
		favorites.POST("", favoriteH.Add)
		favorites.POST("/toggle", favoriteH.Toggle)
		favorites.GET("/check/:categoryId", favoriteH.Check)
		favorites.DELETE("/:categoryId", favoriteH.Remove)

		ratings := v1.Group("/ratings")
		ratings.GET("/category/:categoryId", ratingH.ForCategory)
		ratings.POST("", authRequired, ratingH.Add)
		ratings.PUT("/:id", authRequired, ratingH.Update)
		ratings.DELETE("/:id", authRequired, ratingH.Delete)
		ratings.GET("/user/:categoryId", authRequired, ratingH.ForUser)
	}

	if err := notifyWorker.Start(ctx); err != nil {
		log.Error("start notify worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	notifyWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
