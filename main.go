package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"growthledger/internal/catalog"
	"growthledger/internal/handlers"
	"growthledger/internal/middleware"
	"growthledger/internal/repositories"
	"growthledger/internal/services"
	"growthledger/pkg/database"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "") // postgres DSN; empty selects sqlite
	viper.SetDefault("SQLITE_PATH", "growth.db")
	viper.SetDefault("WEBHOOK_SECRET", "")
	viper.SetDefault("GROWTH_ACTIONS", map[string]string{
		"newsletter_signup": "50",
		"twitter_follow":    "10",
		"facebook_visit":    "5",
	})
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	webhookSecret := viper.GetString("WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("WEBHOOK_SECRET must be set")
	}

	actions, err := catalog.ParseStatic(viper.GetStringMapString("GROWTH_ACTIONS"))
	if err != nil {
		log.Fatalf("Invalid GROWTH_ACTIONS configuration: %v", err)
	}

	// --- Open the ledger store ---
	db, err := database.Open(database.Config{
		PostgresDSN: viper.GetString("DATABASE_DSN"),
		SQLitePath:  viper.GetString("SQLITE_PATH"),
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	app := buildApp(db, actions, webhookSecret)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// buildApp wires repositories, services and handlers onto a Fiber app.
func buildApp(db *gorm.DB, actions catalog.Catalog, webhookSecret string) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	ledgerRepo := repositories.NewGORMLedgerRepository(db)

	userService := services.NewUserService(userRepo)
	ledgerService := services.NewLedgerService(ledgerRepo, userRepo)

	userHandler := handlers.NewUserHandler(userService, ledgerService)
	webhookHandler := handlers.NewWebhookHandler(ledgerService, userService, actions)

	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	userHandler.RegisterRoutes(apiV1)

	// The webhook sits outside /api/v1 behind the shared-secret check.
	webhookHandler.RegisterRoutes(app.Group("", middleware.SharedSecret(webhookSecret)))

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return app
}
