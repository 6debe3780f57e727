package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/nativesins/shop-api/internal/database"
	"github.com/nativesins/shop-api/internal/email"
	"github.com/nativesins/shop-api/internal/handlers"
	"github.com/nativesins/shop-api/internal/models"
	"github.com/nativesins/shop-api/internal/payment"
	"github.com/nativesins/shop-api/internal/routes"
	"github.com/nativesins/shop-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("CRITICAL ERROR: JWT_SECRET environment variable is not set.")
	}

	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	gatewayCfg, err := payment.ConfigFromEnv()
	if err != nil {
		log.Fatalf("CRITICAL ERROR: %v", err)
	}
	gateway := payment.NewClient(gatewayCfg)

	// Confirmation mail is best-effort; the shop runs without it.
	var mailer store.Mailer
	if svc, err := email.NewService(); err != nil {
		log.Printf("WARNING: order confirmation email disabled: %v", err)
	} else {
		mailer = svc
	}

	app := handlers.New(db, gateway, mailer)

	seedAdminUser(app)

	// --- Background Worker ---
	// Sweeps placed orders forward through dispatched and complete.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background worker started: advancing order fulfilment...")

		for range ticker.C {
			moved, err := app.Orders.AdvanceFulfilment(context.Background(), 24*time.Hour, 72*time.Hour)
			if err != nil {
				log.Printf("Fulfilment sweep failed: %v", err)
				continue
			}
			if moved > 0 {
				log.Printf("Fulfilment sweep advanced %d order(s)", moved)
			}
		}
	}()

	router := routes.SetupRouter(app)

	log.Println("Starting Native Sins API server on port 8080...")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAdminUser makes sure a base administrator account exists so a fresh
// install can be managed at all. Already existing is fine.
func seedAdminUser(app *handlers.Handlers) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("WARNING: ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed.")
		return
	}

	_, err := app.Accounts.CreateUser(context.Background(), "Admin", "User", adminEmail, adminPassword, models.RoleAdmin)
	if err != nil && !errors.Is(err, store.ErrDuplicateIdentity) {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
}
