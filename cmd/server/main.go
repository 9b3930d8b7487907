package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/triply/triply-backend/internal/config"
	"github.com/triply/triply-backend/internal/database"
	"github.com/triply/triply-backend/internal/handler"
	"github.com/triply/triply-backend/internal/middleware"
	"github.com/triply/triply-backend/internal/queue"
	"github.com/triply/triply-backend/internal/repository"
	"github.com/triply/triply-backend/internal/router"
)

func main() {
	// .env is optional; in containers configuration comes from the
	// real environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: when it is unreachable the rate limiter and
	// the response cache become pass-throughs.
	rdb := config.NewRedisClient()

	// Repositories.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	destRepo := repository.NewDestinationRepo(db)
	availRepo := repository.NewAvailabilityRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	affiliateRepo := repository.NewAffiliateRepo(db)
	commissionRepo := repository.NewCommissionRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	emailLogRepo := repository.NewEmailLogRepo(db)
	translationRepo := repository.NewTranslationRepo(db)

	// Handlers.
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := &handler.PublicHandler{
		DestRepo:     destRepo,
		AvailRepo:    availRepo,
		ActivityRepo: activityRepo,
		TransRepo:    translationRepo,
	}
	customerHandler := handler.NewCustomerHandler(cfg, bookingRepo, destRepo, availRepo, affiliateRepo, commissionRepo)
	paymentHandler := handler.NewPaymentHandler(cfg, bookingRepo, userRepo)
	adminDestHandler := handler.NewAdminDestinationHandler(destRepo, availRepo, translationRepo)
	adminBookingHandler := handler.NewAdminBookingHandler(cfg, bookingRepo, destRepo, availRepo, affiliateRepo, commissionRepo, userRepo)
	affiliateHandler := handler.NewAffiliateHandler(affiliateRepo, commissionRepo)
	activityHandler := handler.NewActivityHandler(activityRepo, destRepo)
	messageHandler := handler.NewMessageHandler(cfg, messageRepo, emailLogRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, messageHandler)
	router.RegisterCustomer(e, customerHandler, cfg.JWTSecret)
	router.RegisterPayments(e, paymentHandler)
	router.RegisterAffiliate(e, affiliateHandler, cfg.JWTSecret)
	router.RegisterMerchant(e, activityHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, router.AdminHandlers{
		Destinations: adminDestHandler,
		Bookings:     adminBookingHandler,
		Affiliates:   affiliateHandler,
		Activities:   activityHandler,
		Messages:     messageHandler,
	}, cfg.JWTSecret)

	// The email worker runs inside the API process. It reconnects on
	// broker failures and is a no-op when RABBITMQ_URL is unset.
	if cfg.AMQPURL != "" {
		go queue.StartEmailConsumer(cfg.AMQPURL, emailLogRepo)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
