// Package routes wires repositories, services and handlers onto the fiber
// app and applies the auth middleware per route group.
package routes

import (
	"github.com/srigunasankarkatta/mlm-backend/internal/handlers"
	"github.com/srigunasankarkatta/mlm-backend/internal/middleware"
	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/auth"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/autopool"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/income"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/network"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/purchase"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/user"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes builds the full dependency graph and registers every route.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	manager := repositories.NewManager(db)
	repos := manager.Repos()

	walletService := wallet.NewService(repos.Wallets, repositories.CacheService, nil)
	analyzer := network.NewAnalyzer(repos.Users, repos.AutoPool)
	engine := autopool.NewEngine(manager, analyzer, walletService)
	distributor := income.NewDistributor(walletService)
	purchaseService := purchase.NewService(manager, distributor, engine, walletService)
	userService := user.NewService(manager)
	authService := auth.NewService(repos.Users)

	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService, analyzer, repos.Incomes)
	walletHandler := handlers.NewWalletHandler(walletService)
	packageHandler := handlers.NewPackageHandler(repos.Packages, purchaseService)
	poolHandler := handlers.NewAutoPoolHandler(engine)
	adminHandler := handlers.NewAdminHandler(userService, walletService, engine, repos.Packages, repos.Wallets)
	healthHandler := handlers.NewHealthHandler()

	authMiddleware := middleware.NewAuthMiddleware(repos.Users)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Get("/packages", packageHandler.List)

	// Authenticated endpoints
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)

	protected.Get("/profile", userHandler.Profile)
	protected.Put("/profile", userHandler.UpdateProfile)
	protected.Get("/network", userHandler.NetworkStats)
	protected.Get("/incomes", userHandler.IncomeHistory)

	protected.Post("/packages/purchase",
		middleware.HasPermission(models.PermissionPackageBuy), packageHandler.Purchase)
	protected.Get("/packages/history", packageHandler.History)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetBalances)
	walletGroup.Get("/transactions", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetTransactions)
	walletGroup.Post("/transfer", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Transfer)
	walletGroup.Post("/withdraw", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.CreateWithdrawal)
	walletGroup.Get("/withdrawals", middleware.HasPermission(models.PermissionWithdrawalRead), walletHandler.GetWithdrawals)
	walletGroup.Get("/:type", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)

	protected.Get("/auto-pool/status", poolHandler.Status)

	// Admin endpoints
	admin := api.Group("/admin", authMiddleware.Handler, middleware.AdminOnly)

	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)

	admin.Post("/packages", adminHandler.CreatePackage)
	admin.Put("/packages/:id", adminHandler.UpdatePackage)
	admin.Delete("/packages/:id", adminHandler.DeletePackage)

	admin.Post("/wallets/adjust", adminHandler.AdjustWallet)
	admin.Put("/transactions/:id/status", adminHandler.UpdateTransactionStatus)

	admin.Get("/withdrawals", adminHandler.ListWithdrawals)
	admin.Put("/withdrawals/:id", adminHandler.ProcessWithdrawal)

	admin.Post("/auto-pool/rescan", adminHandler.RescanAll)
	admin.Post("/auto-pool/rescan/:id", adminHandler.RescanUser)
	admin.Get("/auto-pool/stats", adminHandler.PoolStats)
}
