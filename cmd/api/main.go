package main

import (
	"fmt"
	"net/http"
	"os"

	"finpanel/internal/config"
	"finpanel/internal/database"
	"finpanel/internal/handlers"
	"finpanel/internal/logger"
	"finpanel/internal/middleware"
	"finpanel/internal/services"
	"finpanel/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager and run migrations
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	dashboardService := services.NewDashboardService(db)
	goalService := services.NewGoalService(db)
	importService := services.NewImportService(db, categoryService)

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	goalHandler := handlers.NewGoalHandler(goalService)
	importHandler := handlers.NewImportHandler(importService)
	reportHandler := handlers.NewReportHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Category routes
	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateQuickEntry)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/recent", transactionHandler.GetRecentTransactions)
	transactions.GET("/months", transactionHandler.GetAvailableMonths)
	transactions.GET("/uncategorized-count", transactionHandler.GetUncategorizedCount)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Dashboard routes
	dashboard := v1.Group("/dashboard")
	dashboard.GET("/kpis", dashboardHandler.GetKPIs)
	dashboard.GET("/expenses-by-category", dashboardHandler.GetExpensesByCategory)
	dashboard.GET("/balance-over-time", dashboardHandler.GetBalanceOverTime)

	// Goal routes
	goals := v1.Group("/goals")
	goals.GET("", goalHandler.GetGoalsPage)
	goals.POST("", goalHandler.CreateGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.Contribute)

	// Report routes
	reports := v1.Group("/reports")
	reports.GET("/expenses-by-category", reportHandler.GetExpensesByCategory)

	// Import route
	v1.POST("/import", importHandler.ImportFile)

	log.Infof("Starting Finpanel backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
