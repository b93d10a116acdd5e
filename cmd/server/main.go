package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shiva/autospecs/config"
	"github.com/shiva/autospecs/internal/handler"
	"github.com/shiva/autospecs/internal/middleware"
	"github.com/shiva/autospecs/internal/repository"
	"github.com/shiva/autospecs/internal/service"
	"github.com/shiva/autospecs/internal/upstream"
	"github.com/shiva/autospecs/pkg/cache"
	"github.com/shiva/autospecs/pkg/db"
)

func main() {
	// ── Load configuration ──────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// ── Connect to PostgreSQL ───────────────────────────
	pgPool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to connect to PostgreSQL: %v", err)
	}
	defer pgPool.Close()
	log.Println("✓ PostgreSQL connected")

	// ── Connect to Redis ────────────────────────────────
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ── Upstream clients ────────────────────────────────
	carqueryClient := upstream.NewCarQueryClient(
		cfg.Upstream.CarQueryBaseURL, cfg.Upstream.UserAgent, cfg.Upstream.CarQueryTimeout)
	nhtsaClient := upstream.NewNHTSAClient(
		cfg.Upstream.NHTSABaseURL, cfg.Upstream.UserAgent, cfg.Upstream.NHTSATimeout)

	// ── Initialize layers ───────────────────────────────
	vehicleCache := repository.NewVehicleCache(redisClient, cfg.Upstream.CacheTTL)
	planRepo := repository.NewTripPlanRepository(pgPool)

	normalizer := service.NewNormalizer(
		cfg.Fuel.PetrolPricePerLiter, cfg.Fuel.DieselPricePerLiter)
	vehicleSvc := service.NewVehicleService(
		carqueryClient, nhtsaClient, vehicleCache, normalizer,
		cfg.Fuel.DefaultTankCapacityL, cfg.Fuel.DefaultConsumptionKmpl)
	tripEstimator := service.NewTripEstimator()
	journeySvc := service.NewJourneyService()

	proxyHandler := handler.NewProxyHandler(carqueryClient, nhtsaClient)
	vehicleHandler := handler.NewVehicleHandler(vehicleSvc)
	tripHandler := handler.NewTripHandler(tripEstimator)
	journeyHandler := handler.NewJourneyHandler(journeySvc)
	planHandler := handler.NewPlanHandler(planRepo, tripEstimator)

	// ── Setup router ────────────────────────────────────
	router := mux.NewRouter()

	// Health check endpoint.
	router.HandleFunc("/health", healthHandler(pgPool, redisClient)).Methods(http.MethodGet)

	// Thin upstream proxies (front-end compatibility paths).
	router.HandleFunc("/api/carquery", proxyHandler.CarQuery).Methods(http.MethodGet)
	router.HandleFunc("/api/nhtsa", proxyHandler.NHTSA).Methods(http.MethodGet)

	// API v1 routes.
	api := router.PathPrefix("/api/v1").Subrouter()
	// Vehicle lookup
	api.HandleFunc("/vehicles/lookup", vehicleHandler.Lookup).Methods(http.MethodGet)
	// Trip suitability
	api.HandleFunc("/trip/analyze", tripHandler.Analyze).Methods(http.MethodPost)
	api.HandleFunc("/trip/estimate", tripHandler.Estimate).Methods(http.MethodPost)
	// Saved trip plans
	api.HandleFunc("/plans", planHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/plans", planHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}", planHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}", planHandler.Delete).Methods(http.MethodDelete)
	// Live journey sessions
	api.HandleFunc("/journeys", journeyHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/journeys/{id}", journeyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/journeys/{id}", journeyHandler.Stop).Methods(http.MethodDelete)
	api.HandleFunc("/journeys/{id}/position", journeyHandler.Position).Methods(http.MethodPost)
	api.HandleFunc("/journeys/{id}/route", journeyHandler.Route).Methods(http.MethodPost)

	// Wrap with middleware: CORS so the browser front-end can call the
	// API, plus request logging and panic recovery.
	wrapped := middleware.CORS(middleware.RequestLogger(middleware.Recoverer(router)))

	// ── Start HTTP server ───────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Server.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// healthHandler returns an HTTP handler that checks PG and Redis connectivity.
func healthHandler(pgPool *pgxpool.Pool, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:   "ok",
			Services: make(map[string]string),
		}

		if err := db.HealthCheck(r.Context(), pgPool); err != nil {
			resp.Status = "degraded"
			resp.Services["postgres"] = "unhealthy: " + err.Error()
		} else {
			resp.Services["postgres"] = "healthy"
		}

		if err := cache.HealthCheck(r.Context(), redisClient); err != nil {
			resp.Status = "degraded"
			resp.Services["redis"] = "unhealthy: " + err.Error()
		} else {
			resp.Services["redis"] = "healthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(resp)
	}
}
