package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/access"
	"github.com/tresorier/caisse/internal/api/handlers"
	"github.com/tresorier/caisse/internal/api/middleware"
	"github.com/tresorier/caisse/internal/config"
	"github.com/tresorier/caisse/internal/logger"
	"github.com/tresorier/caisse/internal/metrics"
	"github.com/tresorier/caisse/internal/models"
	"github.com/tresorier/caisse/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Category{},
		&models.Article{},
		&models.Unit{},
		&models.Supplier{},
		&models.CashInflow{},
		&models.Expense{},
		&models.ExpenseItem{},
		&models.Reimbursement{},
		&models.ClosingPeriod{},
		&models.ActivityLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")

	authService := services.NewAuthService(db, cfg)
	activityService := services.NewActivityService(db)
	balanceService := services.NewBalanceService(db)
	expenseService := services.NewExpenseService(db)
	notifier := services.NewNotifier(cfg.NotifyURL)
	closingService := services.NewClosingService(db, balanceService, notifier)

	authHandler := handlers.NewAuthHandler(authService, cfg.IsProduction())
	authMiddleware := middleware.AuthMiddleware(authService)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.GET("/tabs", authHandler.Tabs)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Dashboard is open to every authenticated session
		dashboardHandler := handlers.NewDashboardHandler(db, balanceService)
		protected.GET("/dashboard", middleware.Guard(access.PathDashboard), dashboardHandler.Summary)

		// Projects (entries area)
		projectHandler := handlers.NewProjectHandler(db, activityService)
		projects := protected.Group("/projects", middleware.Guard(access.PathProjects))
		projects.GET("", projectHandler.List)
		projects.POST("", projectHandler.Create)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)

		// Catalog: categories and units back the articles page
		catalogHandler := handlers.NewCatalogHandler(db, activityService)
		categories := protected.Group("/categories", middleware.Guard(access.PathArticles))
		categories.GET("", catalogHandler.ListCategories)
		categories.POST("", catalogHandler.CreateCategory)
		categories.PUT("/:id", catalogHandler.UpdateCategory)
		categories.DELETE("/:id", catalogHandler.DeleteCategory)

		units := protected.Group("/units", middleware.Guard(access.PathUnits))
		units.GET("", catalogHandler.ListUnits)
		units.POST("", catalogHandler.CreateUnit)
		units.PUT("/:id", catalogHandler.UpdateUnit)
		units.DELETE("/:id", catalogHandler.DeleteUnit)

		articleHandler := handlers.NewArticleHandler(db, activityService)
		articles := protected.Group("/articles", middleware.Guard(access.PathArticles))
		articles.GET("", articleHandler.List)
		articles.POST("", articleHandler.Create)
		articles.PUT("/:id", articleHandler.Update)
		articles.DELETE("/:id", articleHandler.Delete)

		supplierHandler := handlers.NewSupplierHandler(db, activityService)
		suppliers := protected.Group("/suppliers", middleware.Guard(access.PathSuppliers))
		suppliers.GET("", supplierHandler.List)
		suppliers.POST("", supplierHandler.Create)
		suppliers.PUT("/:id", supplierHandler.Update)
		suppliers.DELETE("/:id", supplierHandler.Delete)

		// Cash inflows and PCA reimbursements (entries area)
		inflowHandler := handlers.NewInflowHandler(db, activityService)
		inflows := protected.Group("/inflows", middleware.Guard(access.PathInflow))
		inflows.POST("", inflowHandler.Create)
		inflows.PUT("/:id", inflowHandler.Update)
		inflows.DELETE("/:id", inflowHandler.Delete)

		inflowHistory := protected.Group("/inflows", middleware.Guard(access.PathInflowHistory))
		inflowHistory.GET("", inflowHandler.List)

		reimbursementHandler := handlers.NewReimbursementHandler(db, activityService)
		reimbursements := protected.Group("/reimbursements", middleware.Guard(access.PathInflow))
		reimbursements.GET("", reimbursementHandler.List)
		reimbursements.POST("", reimbursementHandler.Create)
		reimbursements.DELETE("/:id", reimbursementHandler.Delete)

		// Expenses
		expenseHandler := handlers.NewExpenseHandler(db, expenseService, activityService)
		expenses := protected.Group("/expenses", middleware.Guard(access.PathExpenses))
		expenses.POST("", expenseHandler.Create)
		expenses.PUT("/:id", expenseHandler.Update)
		expenses.POST("/:id/validate", expenseHandler.Validate)
		expenses.DELETE("/:id", expenseHandler.Delete)

		expenseHistory := protected.Group("/expenses", middleware.Guard(access.PathExpenseHistory))
		expenseHistory.GET("", expenseHandler.List)
		expenseHistory.GET("/:id", expenseHandler.Get)

		// CSV exports live beside the history pages they mirror
		exports := protected.Group("/exports")
		exports.GET("/inflows", middleware.Guard(access.PathInflowHistory), inflowHandler.Export)
		exports.GET("/expenses", middleware.Guard(access.PathExpenseHistory), expenseHandler.Export)

		// Activity log and user management resolve to admin-only pages
		activityHandler := handlers.NewActivityHandler(activityService)
		protected.GET("/activity", middleware.Guard(access.PathActivity), activityHandler.List)

		userHandler := handlers.NewUserHandler(db, activityService)
		users := protected.Group("/users", middleware.Guard(access.PathUsers))
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)

		// Closing periods
		closingHandler := handlers.NewClosingHandler(closingService, activityService)
		closings := protected.Group("/closings", middleware.Guard(access.PathClosing))
		closings.GET("", closingHandler.List)
		closings.POST("", closingHandler.Create)
	}

	if cfg.ClosingReminderSchedule != "" {
		if err := closingService.StartReminder(cfg.ClosingReminderSchedule); err != nil {
			logger.Log().WithError(err).Warn("closing reminder not scheduled")
		}
	}

	return nil
}
