package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"learnhub/config"
	courseControllers "learnhub/controllers/course"
	dashboardControllers "learnhub/controllers/dashboard"
	sessionControllers "learnhub/controllers/session"
	"learnhub/dashboard"
	"learnhub/database"
	"learnhub/lms"
	applog "learnhub/logger"
	"learnhub/middleware"
	"learnhub/progression"
	"learnhub/routers/courseRoutes"
	"learnhub/routers/dashboardRoutes"
	"learnhub/routers/sessionRoutes"
	"learnhub/utils"
)

type services struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *database.Store
	backend *lms.Client
	tracker *progression.Tracker
	poller  *utils.NotificationPoller
}

func newServices(cfg *config.Config, log *zap.Logger, store *database.Store) *services {
	backend := lms.NewClient(cfg.BackendURL, cfg.BackendTimeout, log)

	var mailer utils.Mailer = utils.NewLogMailer(log)
	if cfg.SendgridAPIKey != "" {
		mailer = utils.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	}
	notifier := utils.NewCertificateNotifier(store, mailer, log)

	tracker := progression.NewTracker(backend, store, log)
	tracker.OnCourseCompleted(notifier.Notify)

	return &services{
		cfg:     cfg,
		log:     log,
		store:   store,
		backend: backend,
		tracker: tracker,
		poller:  utils.NewNotificationPoller(backend, store, cfg.NotificationPollInterval, log),
	}
}

func newApp(s *services) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return middleware.ErrorResponse(c, s.log, err)
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	jwt := middleware.JWTMiddleware(s.cfg.JWTKey)
	session := middleware.SessionMiddleware(s.store, s.log)

	sessionRoutes.SetupSessionRoutes(app, sessionControllers.NewSessionController(s.store, s.poller, s.log), jwt, session)
	courseRoutes.SetupCourseRoutes(app, courseControllers.NewCourseController(s.backend, s.tracker, s.log), jwt, session)
	dashboardRoutes.SetupDashboardRoutes(app,
		dashboardControllers.NewDashboardController(dashboard.NewService(s.backend), s.poller, s.log), jwt, session)

	return app
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := applog.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.Connect(cfg, zl)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}

	s := newServices(cfg, zl, database.NewStore(db))
	s.poller.Start()
	defer s.poller.Stop()

	app := newApp(s)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zl.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			zl.Error("shutdown failed", zap.Error(err))
		}
	}()

	zl.Info("server is running", zap.String("port", cfg.Port), zap.String("backend", cfg.BackendURL))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}
}
