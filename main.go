package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"barpos/cmd"
	"barpos/internal/bars"
	"barpos/internal/core/logger"
	"barpos/internal/database"
	"barpos/internal/inventory/items"
	"barpos/internal/inventory/stocks"
	"barpos/internal/menu"
	"barpos/internal/orders"
	"barpos/internal/pos"
	"barpos/internal/reports"
	"barpos/internal/repository"
	"barpos/internal/transfers"
	"barpos/internal/users"
	"barpos/pkg/auditlog"
	"barpos/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo)

	stockRepository := stocks.NewRepository(repo)
	menuRepository := menu.NewRepository(repo)
	orderRepository := orders.NewRepository(repo)
	orderService := orders.NewService(repo, orderRepository, menuRepository, stockRepository, zapLogger)

	sheetsExporter, err := reports.NewSheetsExporter()
	if err != nil {
		log.Printf("Warning: Google Sheets export disabled: %v", err)
		sheetsExporter = nil
	}

	router := gin.Default()

	security.NewLoginHandler(repo).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", security.JWTMiddleware())
	stocks.NewStockHandler(repo, auditLog).RegisterRoutes(api)
	pos.NewHandler(menuRepository, stockRepository).RegisterRoutes(api)
	transfers.NewHandler(repo, auditLog, zapLogger).RegisterRoutes(api)
	menu.NewHandler(repo, auditLog).RegisterRoutes(api)
	orders.NewOrderHandler(orderService, orderRepository, auditLog).RegisterRoutes(api)
	bars.NewHandler(repo, auditLog).RegisterRoutes(api)
	items.NewHandler(repo, auditLog).RegisterRoutes(api)
	users.NewHandler(users.NewRepository(repo)).RegisterRoutes(api)
	reports.NewHandler(repo, sheetsExporter, zapLogger).RegisterRoutes(api)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
