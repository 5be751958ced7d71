package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/triplogue/backend/docs"
	"github.com/triplogue/backend/internal/budget"
	budgetsplit "github.com/triplogue/backend/internal/budget/split"
	"github.com/triplogue/backend/internal/config"
	"github.com/triplogue/backend/internal/database"
	"github.com/triplogue/backend/internal/trip"
	mw "github.com/triplogue/backend/pkg/middleware"
)

// @title           Triplogue Budget API
// @version         1.0
// @description     Collaborative trip budgeting and expense splitting service
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Connected to database successfully")

	// Split Strategy Factory
	splitFactory := budgetsplit.NewFactory()

	// Budget feature
	budgetRepo := budget.NewRepository(db)

	// Trip feature; removing a trip member marks them past in the budget
	tripRepo := trip.NewRepository(db)
	tripService := trip.NewService(tripRepo, budgetRepo.MarkMemberPast)
	tripHandler := trip.NewHandler(tripService)

	budgetService := budget.NewService(budgetRepo, tripRepo, splitFactory)
	budgetHandler := budget.NewHandler(budgetService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(cfg.JWTSecret))

		r.Mount("/trips", tripHandler.Routes())
		r.Mount("/budgets", budgetHandler.Routes())
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
