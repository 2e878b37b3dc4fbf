package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/meinhoongagan/petcare/availability"
	"github.com/meinhoongagan/petcare/config"
	"github.com/meinhoongagan/petcare/controllers"
	"github.com/meinhoongagan/petcare/cron"
	"github.com/meinhoongagan/petcare/db"
	"github.com/meinhoongagan/petcare/middleware"
	"github.com/meinhoongagan/petcare/redis"
	"github.com/meinhoongagan/petcare/repository"
	"github.com/meinhoongagan/petcare/routes"
	"github.com/meinhoongagan/petcare/utils"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	regenerate, err := availability.ParseRegeneratePolicy(cfg.RegeneratePolicy)
	if err != nil {
		logger.Fatal("invalid REGENERATE_POLICY", zap.Error(err))
	}
	overlap, err := availability.ParseOverlapPolicy(cfg.OverlapPolicy)
	if err != nil {
		logger.Fatal("invalid OVERLAP_POLICY", zap.Error(err))
	}

	gdb, err := db.Init(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer db.Close(gdb)

	// `petcare migrate` only applies the schema.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := db.Migrate(gdb, logger); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		return
	}

	rdb, err := redis.InitRedis(cfg, logger)
	if err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()

	// repositories
	users := repository.NewUserRepository(gdb)
	providers := repository.NewProviderRepository(gdb)
	services := repository.NewServiceRepository(gdb)
	pets := repository.NewPetRepository(gdb)
	bookings := repository.NewBookingRepository(gdb)
	weekly := redis.NewAvailabilityCache(rdb, providers, cfg.AvailabilityCacheTTL, logger)

	// handlers
	authHandler := controllers.NewAuthHandler(users, cfg.JWTSecret, logger)
	providerHandler := controllers.NewProviderHandler(providers, logger)
	availabilityHandler := controllers.NewAvailabilityHandler(controllers.AvailabilityConfig{
		Providers:        providers,
		Store:            weekly,
		Sessions:         redis.NewEditSessions(rdb, cfg.EditSessionTTL),
		Notifiers:        redis.NewPublisher(rdb, logger),
		RegeneratePolicy: regenerate,
		OverlapPolicy:    overlap,
		Logger:           logger,
	})
	serviceHandler := controllers.NewServiceHandler(providers, services, logger)
	petHandler := controllers.NewPetHandler(pets, logger)
	bookingHandler := controllers.NewBookingHandler(controllers.BookingConfig{
		Providers:    providers,
		Availability: weekly,
		Services:     services,
		Pets:         pets,
		Bookings:     bookings,
		Location:     cfg.Location(),
		Logger:       logger,
	})

	app := fiber.New(fiber.Config{
		AppName: "petcare",
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("petcare api")
	})

	protected := middleware.Protected(cfg.JWTSecret, logger)
	routes.SetupAuthRoutes(app, authHandler, protected)
	routes.SetupProviderRoutes(app, providerHandler, protected)
	routes.SetupAvailabilityRoutes(app, availabilityHandler, protected)
	routes.SetupServiceRoutes(app, serviceHandler, protected)
	routes.SetupPetRoutes(app, petHandler, protected)
	routes.SetupBookingRoutes(app, bookingHandler, protected)

	if cfg.RemindersEnabled {
		reminder := cron.NewReminder(bookings, utils.NewSMTPMailer(cfg), cfg.ReminderLead, cfg.Location(), logger)
		scheduler, err := cron.StartCronJobs(reminder)
		if err != nil {
			logger.Fatal("cron init failed", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go listen(app, ":"+cfg.AppPort, logger, quit)
	logger.Info("server started", zap.String("port", cfg.AppPort), zap.String("env", cfg.Env))

	<-quit

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
}

// listen serves until the app stops. A listener failure is reported on quit
// so main still runs its deferred cleanup.
func listen(app *fiber.App, addr string, logger *zap.Logger, quit chan<- os.Signal) {
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		quit <- syscall.SIGTERM
	}
}
