package handler

import (
	"github.com/finbook/finbook-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, reportLimiter *middleware.RateLimiter, authHandler *AuthHandler, categoryHandler *CategoryHandler, transactionHandler *TransactionHandler, reportHandler *ReportHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate())

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Report routes (protected; generation is rate limited per user)
	reports := api.Group("/reports")
	reports.Use(authMiddleware.Authenticate())
	reports.POST("", reportHandler.CreateReport)
	reports.GET("", reportHandler.GetReports)
	reports.GET("/:id", reportHandler.GetReport)
	reports.GET("/:id/result", reportHandler.ReloadReport, middleware.RateLimitMiddleware(reportLimiter))
	reports.POST("/generate/monthly", reportHandler.GenerateMonthly, middleware.RateLimitMiddleware(reportLimiter))
}
