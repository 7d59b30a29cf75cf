package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/campsite-booking-backend/internal/api"
	"github.com/nekogravitycat/campsite-booking-backend/internal/auth"
	"github.com/nekogravitycat/campsite-booking-backend/internal/booking"
	"github.com/nekogravitycat/campsite-booking-backend/internal/clock"
	"github.com/nekogravitycat/campsite-booking-backend/internal/events"
	"github.com/nekogravitycat/campsite-booking-backend/internal/pricing"
	"github.com/nekogravitycat/campsite-booking-backend/internal/site"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	// DBPool selects the Postgres stores. When nil the in-memory stores are used.
	DBPool      *pgxpool.Pool
	LockTimeout time.Duration

	Clock     clock.Clock
	Publisher events.Publisher
	Logger    *slog.Logger

	JWTSecret string
	JWTTTL    time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	SiteService    site.Service
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewSystem(time.UTC)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.Noop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	prices := pricing.NewPriceCalculator()
	points := pricing.NewPointCalculator(prices)

	// Stores
	var (
		siteRepo    site.Repository
		bookingRepo booking.Repository
	)
	if cfg.DBPool != nil {
		siteRepo = site.NewPgxRepository(cfg.DBPool)
		bookingRepo = booking.NewPgxRepository(cfg.DBPool, cfg.LockTimeout)
	} else {
		siteRepo = site.NewMemoryRepository()
		bookingRepo = booking.NewMemoryRepository(cfg.LockTimeout)
	}

	// Site Module
	siteService := site.NewService(siteRepo, bookingRepo, prices, points, cfg.Clock)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, siteService, prices, points, cfg.Publisher, cfg.Clock, cfg.Logger)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		SiteService:    siteService,
		BookingService: bookingService,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		SiteService:    siteService,
		BookingService: bookingService,
	}
}

// SeedSites adds the standard sites to an empty catalog.
func (c *Container) SeedSites(ctx context.Context) (int, error) {
	n, err := c.SiteService.SeedDefaults(ctx)
	if err != nil {
		return n, fmt.Errorf("seed sites: %w", err)
	}
	return n, nil
}
