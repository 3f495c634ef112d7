package main

import (
	"context"
	"net/http"
	"time"

	_ "finanzas/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// setupRouter builds the engine with every route. Handlers read the package
// level queries, appConfig, visionClient and uploads.
func setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", healthCheck)
	if uploads != nil {
		r.Static(uploadsRoute, uploads.Dir)
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", login)
	auth.POST("/register", register)

	protected := api.Group("")
	protected.Use(authMiddleware())

	protected.GET("/auth/me", getMe)
	protected.PUT("/auth/settings", updateSettings)

	admin := protected.Group("/admin")
	admin.Use(requireAdmin())
	admin.GET("/users", listUsers)
	admin.PUT("/users/:id/status", updateUserStatus)

	protected.GET("/transactions", getTransactions)
	protected.POST("/transactions", createTransaction)
	protected.POST("/transactions/import", importTransactions)
	protected.GET("/transactions/:id", getTransaction)
	protected.PUT("/transactions/:id", updateTransaction)
	protected.DELETE("/transactions/:id", deleteTransaction)

	protected.GET("/categories", getCategories)
	protected.POST("/categories", createCategory)
	protected.DELETE("/categories/:id", deleteCategory)

	protected.GET("/checklist", getChecklist)
	protected.POST("/checklist", createChecklistItem)
	protected.DELETE("/checklist/:id", deleteChecklistItem)
	protected.POST("/checklist/:id/toggle", toggleChecklistItem)

	protected.GET("/budgets", getBudgets)
	protected.GET("/budgets/progress", getBudgetProgress)
	protected.POST("/budgets", createBudget)
	protected.PUT("/budgets/:id", updateBudget)
	protected.DELETE("/budgets/:id", deleteBudget)

	protected.GET("/goals", getGoals)
	protected.POST("/goals", createGoal)
	protected.PUT("/goals/:id", updateGoal)
	protected.DELETE("/goals/:id", deleteGoal)
	protected.POST("/goals/:id/contribute", contributeGoal)

	protected.GET("/reminders", getReminders)
	protected.POST("/reminders", createReminder)
	protected.DELETE("/reminders/:id", deleteReminder)
	protected.POST("/reminders/:id/mark-paid", markReminderPaid)

	protected.GET("/debts", getDebts)
	protected.POST("/debts", createDebt)
	protected.PUT("/debts/:id", updateDebt)
	protected.DELETE("/debts/:id", deleteDebt)
	protected.POST("/debts/:id/payment", payDebt)

	protected.POST("/receipts/upload", uploadReceipt)
	protected.GET("/receipts", getReceipts)
	protected.GET("/receipts/:id", getReceipt)
	protected.DELETE("/receipts/:id", deleteReceipt)
	protected.POST("/receipts/:id/process", processReceipt)
	protected.POST("/receipts/:id/transaction", createTransactionFromReceipt)

	protected.GET("/balance", getBalance)

	protected.GET("/analytics/overview", getOverview)
	protected.GET("/analytics/categories", getCategoryAnalytics)
	protected.GET("/analytics/top-categories", getTopCategories)

	protected.GET("/export/transactions/csv", exportTransactionsCSV)
	protected.GET("/export/debts/csv", exportDebtsCSV)
	protected.GET("/export/budgets/csv", exportBudgetsCSV)
	protected.GET("/export/monthly-report", exportMonthlyReport)

	return r
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "status ok"
// @Failure 503 {object} map[string]interface{} "database unavailable"
// @Router /health [get]
func healthCheck(c *gin.Context) {
	if p, ok := queries.(pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": "database unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
