package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulsefit/coach-app/internal/api"
	"pulsefit/coach-app/internal/config"
	"pulsefit/coach-app/internal/generation"
	"pulsefit/coach-app/internal/repository/mongo"
	"pulsefit/coach-app/internal/service"
	"pulsefit/coach-app/internal/storage"
	"pulsefit/coach-app/internal/template"

	"github.com/gin-gonic/gin"
)

// @title Coach App API
// @version 1.0
// @description API for questionnaire-driven workout and nutrition plan generation.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Coach App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("plans"))
		mongo.EnsurePlanRequestIndexes(ctx, appDB.Collection("plan_requests"))
		mongo.EnsureSessionLogIndexes(ctx, appDB.Collection("session_logs"))
		mongo.EnsurePlanDayIndexes(ctx, appDB.Collection("plan_days"))
		mongo.EnsureMealLogIndexes(ctx, appDB.Collection("meal_logs"))
		mongo.EnsureHydrationIndexes(ctx, appDB.Collection("hydration_logs"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Response Archive ---
	var archive storage.ResponseArchive
	if cfg.S3.BucketName != "" {
		log.Println("Initializing response archive...")
		archive, err = storage.NewS3Archive(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 archive: %v", err)
		}
	} else {
		log.Println("No S3 bucket configured; raw responses kept in the database only.")
	}

	// --- Initialize Generator ---
	var generator generation.Generator
	switch cfg.Generation.Provider {
	case "scripted":
		log.Println("Using scripted generator (offline mode).")
		generator = generation.NewScriptedGenerator()
	default:
		generator, err = generation.NewGeminiGenerator(context.Background(), cfg.Generation.APIKey, cfg.Generation.Model)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize Gemini generator: %v", err)
		}
	}
	defer func() {
		if err := generator.Close(); err != nil {
			log.Printf("ERROR: Failed to close generator: %v", err)
		}
	}()
	log.Printf("Generator initialized: %s", generator.Name())

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	planRequestRepo := mongo.NewMongoPlanRequestRepository(appDB)
	sessionLogRepo := mongo.NewMongoSessionLogRepository(appDB)
	planDayRepo := mongo.NewMongoPlanDayRepository(appDB)
	mealLogRepo := mongo.NewMongoMealLogRepository(appDB)
	hydrationRepo := mongo.NewMongoHydrationRepository(appDB)
	txRunner := mongo.NewTxRunner(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	registry := template.NewRegistry()
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(registry, generator, planRepo, planRequestRepo, sessionLogRepo, txRunner, archive, time.Now)
	dashboardService := service.NewDashboardService(planRepo, sessionLogRepo, planDayRepo, mealLogRepo, hydrationRepo, cfg.Plans.HydrationTargetMl, time.Now)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, registry, authService, planService, dashboardService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // Plan generation calls an upstream model
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
