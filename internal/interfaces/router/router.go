package router

import (
	ledgersvc "airgrid-backend/internal/application/ledger"
	lesvc "airgrid-backend/internal/application/listingevents"
	listsvc "airgrid-backend/internal/application/listings"
	mktsvc "airgrid-backend/internal/application/marketplace"
	"airgrid-backend/internal/config"
	"airgrid-backend/internal/infrastructure/database"
	healthhandler "airgrid-backend/internal/interfaces/handlers/health"
	ledgerhandler "airgrid-backend/internal/interfaces/handlers/ledger"
	listhandler "airgrid-backend/internal/interfaces/handlers/listings"
	reghandler "airgrid-backend/internal/interfaces/handlers/registry"
	"airgrid-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp wires the Fiber app, database and redis client from config.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	ledgerService := &ledgersvc.Service{DB: db}
	marketService := &mktsvc.Service{
		DB:       db,
		Ledger:   ledgerService,
		Treasury: cfg.Treasury,
	}
	listingsService := &listsvc.Service{DB: db}
	eventsService := &lesvc.Service{DB: db}

	rh := &reghandler.Handlers{Marketplace: marketService, Listings: listingsService}
	lh := &listhandler.Handlers{Marketplace: marketService, Listings: listingsService, Events: eventsService}
	gh := &ledgerhandler.Handlers{Service: ledgerService}

	auth := middleware.RequireIdentity(cfg.JWTSecret)
	v1 := app.Group("/api/v1")

	v1.Post("/registry/initialize", auth, rh.Initialize)
	v1.Get("/registry", rh.Get)

	v1.Post("/listings", auth, lh.Create)
	v1.Get("/listings", lh.List)
	v1.Get("/listings/:id", lh.Get)
	v1.Patch("/listings/:id/price", auth, lh.UpdatePrice)
	v1.Post("/listings/:id/cancel", auth, lh.Cancel)
	v1.Post("/listings/:id/purchase", auth, lh.Purchase)
	v1.Post("/listings/:id/lease", auth, lh.Lease)
	v1.Get("/listings/:id/leases", lh.Leases)
	v1.Get("/listings/:id/events", lh.ListEvents)

	v1.Get("/locations/:country/:city", lh.LocationIndex)

	v1.Post("/ledger/accounts", auth, gh.OpenAccount)
	v1.Get("/ledger/accounts/:id", auth, gh.Balance)

	return app, db, rdb, nil
}
