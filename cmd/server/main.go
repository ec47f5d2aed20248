package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/travel-reservation/internal/booking"    // Reservation engine
	"github.com/iliyamo/travel-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/travel-reservation/internal/database"   // MySQL connection helper
	"github.com/iliyamo/travel-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/travel-reservation/internal/middleware" // Redis cache and rate limiting
	"github.com/iliyamo/travel-reservation/internal/queue"      // RabbitMQ consumer
	"github.com/iliyamo/travel-reservation/internal/repository" // Data access layer
	"github.com/iliyamo/travel-reservation/internal/router"     // Route registration
)

func main() {
	// Load a local .env file when present.  In production the variables
	// come from the real environment and the file is absent; that is not
	// an error.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load() // Load environment config

	// Open the MySQL pool.  Everything below depends on it, so a failure
	// here is fatal.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  NewRedisClient
	// returns nil when the server is unreachable and both middlewares
	// degrade to pass-through in that case.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	cityRepo := repository.NewCityRepo(db)
	companyRepo := repository.NewCompanyRepo(db)
	tripRepo := repository.NewTripRepo(db)
	hotelRepo := repository.NewHotelRepo(db)
	taxiRepo := repository.NewTaxiRepo(db)
	resRepo := repository.NewReservationRepo(db)

	// The booking engine runs every reservation inside a serializable
	// transaction provided by the store.
	engine := booking.NewEngine(repository.NewBookingStore(db))

	// Handlers.
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicH := handler.NewPublicHandler(cityRepo, companyRepo, tripRepo, hotelRepo, taxiRepo)
	resH := handler.NewReservationHandler(engine, resRepo, tripRepo, hotelRepo, taxiRepo)
	adminH := handler.NewAdminHandler(cityRepo, companyRepo, tripRepo, hotelRepo, taxiRepo, userRepo)

	e := echo.New() // Create Echo instance
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterCustomer(e, resH, cfg.JWTSecret, limitMW)
	router.RegisterAdmin(e, adminH, resH, cfg.JWTSecret)

	// The consumer mirrors confirmed and cancelled reservations into the
	// audit log.  It reconnects on its own, so it runs detached from the
	// HTTP server lifecycle.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
