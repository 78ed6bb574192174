package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/hr-dashboard/internal/config"
	"alfredoptarigan/hr-dashboard/internal/handlers"
	"alfredoptarigan/hr-dashboard/internal/repositories"
	"alfredoptarigan/hr-dashboard/internal/services"
	"alfredoptarigan/hr-dashboard/internal/views"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize repositories
	var (
		sessionRepo repositories.SessionRepository
		runRepo     repositories.RunRepository
	)
	if cfg.Database.Driver == config.DriverMemory {
		sessionRepo = repositories.NewMemorySessionRepository()
		runRepo = repositories.NewMemoryRunRepository()
		log.Println("⚠️  Using in-memory repositories, state is lost on restart")
	} else {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		sessionRepo = repositories.NewSessionRepository(db)
		runRepo = repositories.NewRunRepository(db)
	}
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	backend := services.NewBackendClient(
		cfg.Backend.URL,
		cfg.Backend.Timeout,
		cfg.Auth.LoginDelay,
		cfg.Backend.ShortlistRetries,
	)
	toasts := services.NewToastService()
	sessions := services.NewSessionService(sessionRepo, backend, toasts, cfg.Auth.SessionTTL)
	dashboard := services.NewDashboardService(
		sessionRepo,
		runRepo,
		services.NewSheetService(backend, cfg.Sheet.RequiredHost),
		services.NewCandidateService(backend),
		toasts,
	)
	reports := services.NewReportService()
	log.Printf("✅ Services initialized, backend at %s\n", cfg.Backend.URL)

	// Initialize worker
	worker := services.NewWorker(
		runRepo,
		dashboard,
		sessions,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		cfg.Worker.PollInterval,
		cfg.Worker.StaleAfter,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	auth := handlers.NewAuthMiddleware(sessions, handlers.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
	})
	routes := &handlers.Routes{
		Auth:      auth,
		Login:     handlers.NewAuthHandler(sessions, auth),
		Dashboard: handlers.NewDashboardHandler(dashboard, reports, toasts, worker),
		API:       handlers.NewAPIHandler(dashboard, worker),
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HR Automation Dashboard",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Views:        views.NewEngine(),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	routes.Register(app)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("🖥️  Dashboard: http://localhost%s/dashboard\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
