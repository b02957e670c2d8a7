package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/tallyhq/tally/docs"
	"github.com/tallyhq/tally/internal/balance"
	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/database"
	"github.com/tallyhq/tally/internal/expense"
	"github.com/tallyhq/tally/internal/group"
	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/ledger/split"
	"github.com/tallyhq/tally/internal/settlement"
	"github.com/tallyhq/tally/internal/snapshot"
	"github.com/tallyhq/tally/internal/user"
	mw "github.com/tallyhq/tally/pkg/middleware"
)

// @title        Tally API
// @version      1.0
// @description  Shared expense ledger with pairwise balances and settlements.
// @host         localhost:8080
// @BasePath     /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	// The ledger lives in memory; restore the last persisted snapshot so
	// balances survive restarts.
	ledg := ledger.New()
	snapshotRepo := snapshot.NewRepository(db)
	snap, err := snapshotRepo.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load ledger snapshot: %v", err)
	}
	if err := ledg.Import(snap); err != nil {
		log.Fatalf("Failed to restore ledger snapshot: %v", err)
	}
	log.Printf("Restored ledger: %d pair balances, %d expenses", len(snap.Balances), len(snap.Expenses))

	// Split Strategy Factory (Factory Pattern)
	splitFactory := split.NewFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo)
	groupHandler := group.NewHandler(groupService)

	// Expense feature (with split factory injected)
	expenseService := expense.NewService(ledg, splitFactory, userRepo, groupService, snapshotRepo)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(ledg, settlementRepo, snapshotRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	// Balance feature (read-only projection over the ledger)
	balanceService := balance.NewService(ledg, userRepo)
	balanceHandler := balance.NewHandler(balanceService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthMode == "jwt" {
			r.Use(mw.Auth(cfg.JWTSecret))
		} else {
			log.Println("AUTH_MODE=test: trusting X-Test-User-ID header")
			r.Use(mw.TestUserMiddleware)
		}

		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/balances", balanceHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
