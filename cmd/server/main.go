package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/openstay/booking-service/internal/config"
	"github.com/openstay/booking-service/internal/database"
	"github.com/openstay/booking-service/internal/handler"
	"github.com/openstay/booking-service/internal/middleware"
	"github.com/openstay/booking-service/internal/queue"
	"github.com/openstay/booking-service/internal/repository"
	"github.com/openstay/booking-service/internal/router"
	"github.com/openstay/booking-service/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}

	listingRepo := repository.NewListingRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	visitRepo := repository.NewVisitRequestRepo(db)

	txRunner := service.NewSQLTxRunner(db)
	ledger := service.NewBookingLedger(txRunner, listingRepo, inventoryRepo, bookingRepo, service.PublishBookingConfirmed)
	reviews := service.NewReviewAggregator(txRunner, listingRepo, reviewRepo)
	visits := service.NewVisitRegistry(txRunner, listingRepo, visitRepo)

	// Payment confirmations arrive as validated facts on the
	// payment.succeeded queue and drive the same ledger path as the
	// HTTP endpoint.
	if cfg.AMQPHandlers > 0 {
		confirm := func(ctx context.Context, ev queue.PaymentSucceededEvent) error {
			_, err := ledger.ConfirmBooking(ctx, service.ConfirmBookingInput{
				Name:        ev.Name,
				Email:       ev.Email,
				Mobile:      ev.Mobile,
				ListingID:   ev.ListingID,
				RoomType:    ev.RoomType,
				AmountMinor: ev.AmountMinor,
				BookingRef:  ev.BookingRef,
				MoveInDate:  ev.MoveInDate,
			})
			return err
		}
		for i := 0; i < cfg.AMQPHandlers; i++ {
			go func() {
				if err := queue.StartPaymentConsumer(confirm); err != nil {
					log.Printf("payment consumer stopped: %v", err)
				}
			}()
		}
	}

	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.RegisterRoutes(e, router.Handlers{
		Booking: handler.NewBookingHandler(ledger),
		Review:  handler.NewReviewHandler(reviews),
		Visit:   handler.NewVisitRequestHandler(visits),
		Listing: handler.NewListingHandler(listingRepo),
	}, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
