package routes

import (
	"formafusion-partners/internal/adapters/http/handlers"
	"formafusion-partners/internal/adapters/http/middleware"
	"formafusion-partners/internal/adapters/persistence/repositories"
	"formafusion-partners/internal/config"
	"formafusion-partners/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	prospectRepo := repositories.NewProspectRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	notificationService := services.NewNotificationService(notificationRepo)
	clientService := services.NewClientService(clientRepo, userRepo, prospectRepo, transactionRepo, notificationService, cfg)
	revendeurService := services.NewRevendeurService(userRepo, clientRepo, cfg)
	transactionService := services.NewTransactionService(transactionRepo, userRepo, notificationService, cfg)
	dashboardService := services.NewDashboardService(db, cfg)
	exportService := services.NewExportService(cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	clientHandler := handlers.NewClientHandler(clientService)
	revendeurHandler := handlers.NewRevendeurHandler(revendeurService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	exportHandler := handlers.NewExportHandler(transactionService, exportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	apiV1.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	apiV1.Post("/refresh", middleware.AuthRateLimiter(), authHandler.RefreshToken)
	apiV1.Post("/logout", authHandler.Logout)
	apiV1.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Everything below requires authentication
	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))

	// Client routes
	protected.Get("/clients", middleware.AdminOnly(), clientHandler.List)
	protected.Get("/mes-clients", middleware.RevendeurOnly(), clientHandler.MyClients)
	protected.Post("/register-client", middleware.AdminOnly(), clientHandler.Register)
	protected.Patch("/clients/:id/update-statut", middleware.AdminOnly(), clientHandler.UpdateStatut)
	protected.Post("/clients/:id/valider-paiement", middleware.AdminOnly(), clientHandler.ValiderPaiement)
	protected.Get("/import-client/:email", middleware.AdminOnly(), clientHandler.Import)

	// Reseller routes
	protected.Get("/revendeurs", middleware.AdminOnly(), revendeurHandler.List)
	protected.Post("/register-revendeur", middleware.AdminOnly(), revendeurHandler.Register)
	protected.Get("/mon-profil", middleware.RevendeurOnly(), revendeurHandler.Profile)

	// Transaction routes
	protected.Get("/transactions", transactionHandler.List)
	protected.Post("/transactions", middleware.RevendeurOnly(), transactionHandler.CreateRetrait)
	protected.Put("/transactions/:id", middleware.AdminOnly(), transactionHandler.Decide)
	protected.Get("/solde", middleware.RevendeurOnly(), transactionHandler.Solde)

	// Notification routes
	protected.Get("/notifications", notificationHandler.List)
	protected.Get("/notifications/unread-count", notificationHandler.UnreadCount)
	protected.Post("/notifications/read-all", notificationHandler.ReadAll)

	// Dashboard (admin only)
	protected.Get("/admin/dashboard", middleware.AdminOnly(), dashboardHandler.Stats)

	// Export routes
	protected.Get("/export-pdf/transaction/:id", exportHandler.TransactionPDF)
	protected.Get("/export-transactions", exportHandler.Transactions)
}
