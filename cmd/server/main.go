package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"formafusion-partners/internal/adapters/http/middleware"
	"formafusion-partners/internal/adapters/http/routes"
	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/adapters/persistence/repositories"
	"formafusion-partners/internal/config"
	"formafusion-partners/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title FormaFusion Partners API
// @version 1.0
// @description API d'administration du programme partenaires FormaFusion
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@forma-fusion.com

// @host api.partners.forma-fusion.com
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed admin account and dev fixtures
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Scheduled jobs: pending transaction reminder and token cleanup
	transactionRepo := repositories.NewTransactionRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	notificationService := services.NewNotificationService(repositories.NewNotificationRepository(db))
	cronService := services.NewCronService(transactionRepo, refreshTokenRepo, notificationService)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron jobs: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FormaFusion Partners API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
