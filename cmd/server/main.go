package main // Entry point package

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/showtix/showtix/internal/config"
	"github.com/showtix/showtix/internal/database"
	"github.com/showtix/showtix/internal/handler"
	"github.com/showtix/showtix/internal/identity"
	"github.com/showtix/showtix/internal/middleware"
	"github.com/showtix/showtix/internal/queue"
	"github.com/showtix/showtix/internal/repository"
	"github.com/showtix/showtix/internal/router"
	"github.com/showtix/showtix/internal/service"
	"github.com/showtix/showtix/internal/tmdb"
)

func main() {
	// .env is optional; container deployments set real env vars.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "showtix").Logger()
	if cfg.Env == "dev" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// Redis is optional: when it is unreachable the cache and rate
	// limiter middlewares degrade to pass-through.
	rdb := config.NewRedisClient()

	movieRepo := repository.NewMovieRepo(db)
	showRepo := repository.NewShowRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	reservations := repository.NewReservationStore(db, bookingRepo, seatRepo)

	tmdbClient := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey)

	var favorites identity.FavoritesStore
	if cfg.IdentityAPIURL != "" {
		favorites = identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
	} else {
		logger.Warn().Msg("IDENTITY_API_URL not set; favorites endpoints disabled")
	}

	brokerURL := queue.BrokerURL()
	publisher := queue.NewPublisher(brokerURL, logger)
	go queue.StartBookingConsumer(brokerURL, logger)

	showSvc := service.NewShowService(movieRepo, showRepo, tmdbClient, logger)
	bookingSvc := service.NewBookingService(showRepo, reservations, seatRepo, bookingRepo, publisher, cfg.MaxSeatsPerBooking, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled {
		e.Use(middleware.NewTokenBucket(rlCfg, rdb))
	}
	var cache echo.MiddlewareFunc
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
		cache = middleware.NewRedisCache(cacheCfg, rdb)
	}

	showHandler := handler.NewShowHandler(showSvc, tmdbClient)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	userHandler := handler.NewUserHandler(bookingSvc, movieRepo, favorites)
	adminHandler := handler.NewAdminHandler(showRepo, seatRepo, bookingRepo, userRepo)
	webhookHandler := handler.NewWebhookHandler(userRepo, cfg.WebhookSecret, logger)

	router.RegisterRoutes(e)
	router.RegisterShows(e, showHandler, cfg.JWTSecret, cache)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)
	router.RegisterUsers(e, userHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterWebhooks(e, webhookHandler)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
