package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/modules/fulfillment"
	"github.com/lumenblinds/shades-backend/internal/modules/gateway"
	"github.com/lumenblinds/shades-backend/internal/modules/inventory"
	"github.com/lumenblinds/shades-backend/internal/modules/mail"
	"github.com/lumenblinds/shades-backend/internal/modules/order"
	"github.com/lumenblinds/shades-backend/internal/modules/pricing"
	"github.com/lumenblinds/shades-backend/internal/modules/returns"
	"github.com/lumenblinds/shades-backend/internal/platform/sheetstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	ctx := context.Background()

	// ── Backing store ───────────────────────────────────────
	var store sheetstore.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Successfully connected to the database!")
		store = sheetstore.NewPostgres(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		store = sheetstore.NewMemory()
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Repositories (schema ensured up front) ──────────────
	productRepo := catalog.NewSheetRepository(store)
	orderRepo := order.NewSheetRepository(store)
	factoryRepo := fulfillment.NewSheetRepository(store)
	returnRepo := returns.NewSheetRepository(store)
	for name, ensure := range map[string]func(context.Context) error{
		catalog.SheetName:     productRepo.Ensure,
		order.SheetName:       orderRepo.Ensure,
		fulfillment.SheetName: factoryRepo.Ensure,
		returns.SheetName:     returnRepo.Ensure,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatalf("ensure sheet %s: %v", name, err)
		}
	}

	// ── Services ────────────────────────────────────────────
	mode := pricing.ParseMode(os.Getenv("PRICING_MODE"))
	catalogService := catalog.NewService(productRepo)
	ledger := inventory.NewService(productRepo)
	orderService := order.NewService(orderRepo, productRepo, ledger, mode)
	factoryService := fulfillment.NewService(factoryRepo, orderService)
	returnService := returns.NewService(returnRepo, orderRepo, os.Getenv("RETURNS_STRICT") == "true")

	var mailer mail.Mailer
	if host := os.Getenv("SMTP_HOST"); host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host: host,
			Port: os.Getenv("SMTP_PORT"),
			From: os.Getenv("SMTP_FROM"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
		})
	} else {
		mailer = mail.NewLogMailer()
	}

	// ── Gateway ─────────────────────────────────────────────
	gateway.NewHandler(catalogService, orderService, ledger, factoryService, returnService, mailer).RegisterRoutes(router)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// ── Start Server ─────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Shades API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
