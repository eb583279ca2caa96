package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"skybook/internal/cache"
	"skybook/internal/config"
	"skybook/internal/database"
	"skybook/internal/events"
	"skybook/internal/middleware"
	"skybook/internal/modules/admin"
	"skybook/internal/modules/auth"
	"skybook/internal/modules/booking"
	"skybook/internal/modules/flights"
	"skybook/internal/modules/payment"
	jwtsvc "skybook/internal/pkg/jwt"
	"skybook/internal/provider"
	"skybook/internal/repository"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	userRepo := repository.NewUserRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	var flightCache *cache.FlightCache
	if cfg.Redis.Addr != "" {
		flightCache = cache.NewFlightCache(cfg.Redis)
	}

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.BookingTopic)
	defer producer.Close()

	checkout := provider.NewHTTPProvider(cfg.Provider.BaseURL, cfg.Provider.APIKey)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	var searchCache flights.SearchCache
	var invalidator admin.CacheInvalidator
	if flightCache != nil {
		searchCache = flightCache
		invalidator = flightCache
	}

	flightService := flights.NewService(flightRepo, searchCache)
	flightHandler := flights.NewHandler(flightService)

	bookingService := booking.NewService(bookingRepo, flightRepo, producer)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(paymentRepo, bookingRepo, checkout, producer)
	paymentHandler := payment.NewHandler(paymentService, checkout)

	adminService := admin.NewService(flightRepo, bookingRepo, invalidator)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api)
		flightHandler.RegisterPublicRoutes(api)
		paymentHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)

			adminGroup := protected.Group("/")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterRoutes(adminGroup)
			}
		}
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("forced shutdown")
	}
}
