package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-rental-booking/internal/booking"
	"github.com/iliyamo/vacation-rental-booking/internal/config"
	"github.com/iliyamo/vacation-rental-booking/internal/database"
	"github.com/iliyamo/vacation-rental-booking/internal/handler"
	"github.com/iliyamo/vacation-rental-booking/internal/middleware"
	"github.com/iliyamo/vacation-rental-booking/internal/payment"
	"github.com/iliyamo/vacation-rental-booking/internal/queue"
	"github.com/iliyamo/vacation-rental-booking/internal/repository"
	"github.com/iliyamo/vacation-rental-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	bookings := repository.NewBookingRepo(db)
	blocked := repository.NewBlockedPeriodRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := booking.NewEngine(bookings, blocked, cfg.NightlyRateCents)

	// Payment stays nil without a Stripe key; the pay endpoint then
	// responds 503 instead of pretending to capture funds.
	var processor payment.Processor
	if cfg.StripeSecretKey != "" {
		processor = payment.NewStripeProcessor(cfg.StripeSecretKey, cfg.Currency)
	} else {
		log.Println("stripe: no secret key configured, payment disabled")
	}

	e := echo.New()

	var cacheMW echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	} else {
		log.Println("redis: unavailable, rate limiting and response cache disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterProperty(e, handler.NewPropertyHandler(cfg), cacheMW)
	router.RegisterBooking(e, handler.NewBookingHandler(engine, processor, cfg.MaxPartySize))
	router.RegisterAdmin(e, handler.NewAdminHandler(engine), cfg.JWTSecret)

	// Background consumer writes booking.confirmed events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
