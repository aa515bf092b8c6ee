package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"ispdesk_echo/internal/handlers"
	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/middleware"
	"ispdesk_echo/internal/services"
	"ispdesk_echo/internal/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Redis is optional; the dashboard just computes uncached without it
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	} else {
		log.Println("Warning: REDIS_URL not set, dashboard caching disabled")
	}

	// The ledger owns all billing-cycle state; handlers go through it
	ledgerSvc := ledger.NewService(store.NewGormStore(db))

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.HTTPErrorHandler = middleware.CustomErrorHandler

	// Initialize handlers
	customerHandler := handlers.NewCustomerHandler(db, ledgerSvc)
	cycleHandler := handlers.NewCycleHandler(ledgerSvc)
	packageHandler := handlers.NewPackageHandler(db)
	inventoryHandler := handlers.NewInventoryHandler(db)
	expenseHandler := handlers.NewExpenseHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db, ledgerSvc, cache)

	// Customer routes
	e.GET("/customers", customerHandler.ListCustomers)
	e.POST("/customers", customerHandler.CreateCustomer)
	e.GET("/customers/:id", customerHandler.GetCustomer)
	e.PATCH("/customers/:id", customerHandler.UpdateCustomer)
	e.DELETE("/customers/:id", customerHandler.DeleteCustomer)

	// Billing cycle routes
	e.GET("/customers/:id/cycles", cycleHandler.ListCustomerCycles)
	e.GET("/customers/:id/cycles/active", cycleHandler.GetActiveCycle)
	e.POST("/customers/:id/cycles/renew", cycleHandler.RenewCustomerCycle)
	e.GET("/cycles/:id", cycleHandler.GetCycle)
	e.POST("/cycles/:id/installments", cycleHandler.AddInstallment)
	e.PATCH("/cycles/:id/metadata", cycleHandler.PatchCycleMetadata)

	// Package catalog routes
	e.GET("/packages", packageHandler.ListPackages)
	e.POST("/packages", packageHandler.CreatePackage)
	e.PATCH("/packages/:id", packageHandler.UpdatePackage)
	e.DELETE("/packages/:id", packageHandler.DeletePackage)

	// Inventory routes
	e.GET("/inventory", inventoryHandler.ListItems)
	e.POST("/inventory", inventoryHandler.CreateItem)
	e.PATCH("/inventory/:id", inventoryHandler.UpdateItem)
	e.POST("/inventory/:id/adjust", inventoryHandler.AdjustQuantity)
	e.DELETE("/inventory/:id", inventoryHandler.DeleteItem)

	// Expense routes
	e.GET("/expenses", expenseHandler.ListExpenses)
	e.POST("/expenses", expenseHandler.CreateExpense)
	e.PATCH("/expenses/:id", expenseHandler.UpdateExpense)
	e.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	// Dashboard
	e.GET("/dashboard/summary", dashboardHandler.Summary)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
