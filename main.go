package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ironPaxAPI/handlers"
	"ironPaxAPI/internal/cache"
	"ironPaxAPI/internal/challenge"
	"ironPaxAPI/internal/config"
	"ironPaxAPI/internal/notification"
	"ironPaxAPI/middleware"
	"ironPaxAPI/repository"
	"ironPaxAPI/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	clerk.SetKey(cfg.Clerk.SecretKey)
	log.Println("Clerk initialized successfully")

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("Successfully connected to Postgres")

	// Redis is optional: without it the leaderboard is rebuilt per request.
	var leaderboardCache *cache.Cache
	if cfg.Redis.URL != "" {
		leaderboardCache, err = cache.New(ctx, cfg.Redis.URL)
		if err != nil {
			log.Printf("Warning: Could not connect to Redis, leaderboard caching disabled: %v", err)
			leaderboardCache = nil
		} else {
			log.Println("Redis cache initialized successfully")
		}
	}

	// Services
	userService := services.NewUserService(dbPool)
	badgeService := services.NewBadgeService(dbPool)
	aoService := services.NewAoService(dbPool)
	beatdownService := services.NewBeatdownService(dbPool)

	fcmService, err := notification.NewFCMService(cfg.FCM.ServiceAccountJSON, cfg.FCM.KeyFile)
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		badgeService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	definitionStore := repository.NewPgDefinitionStore(dbPool)
	recordStore := repository.NewPgRecordStore(dbPool)

	definitionService := services.NewChallengeDefinitionService(definitionStore)
	challengeService := services.NewChallengeService(
		recordStore,
		definitionStore,
		challenge.DefaultBadgeCatalog(),
		badgeService,
		userService,
		leaderboardCache,
	)
	attendanceService := services.NewAttendanceService(dbPool, challengeService)

	// Handlers
	userHandler := handlers.NewUserHandler(userService, badgeService)
	aoHandler := handlers.NewAoHandler(aoService, userService)
	beatdownHandler := handlers.NewBeatdownHandler(beatdownService, userService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, userService)
	challengeHandler := handlers.NewChallengeHandler(challengeService, definitionService, userService)
	webhookHandler := handlers.NewWebhookHandler(userService, cfg.Clerk.WebhookSecret)

	middleware.InitPrometheus()

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go rateLimiter.CleanupVisitors()

	r.Use(rateLimiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.Metrics.User, cfg.Metrics.Password, promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "ironPax-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/user/badges", userHandler.GetBadges).Methods("GET")
	protected.HandleFunc("/user/register-device", userHandler.RegisterDevice).Methods("POST")
	protected.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	protected.HandleFunc("/users/{id}/roles", userHandler.UpdateRoles).Methods("PUT")

	protected.HandleFunc("/aos", aoHandler.ListAos).Methods("GET")
	protected.HandleFunc("/aos", aoHandler.CreateAo).Methods("POST")
	protected.HandleFunc("/aos/{id}", aoHandler.GetAo).Methods("GET")
	protected.HandleFunc("/aos/{id}", aoHandler.UpdateAo).Methods("PUT")
	protected.HandleFunc("/aos/{id}", aoHandler.DeleteAo).Methods("DELETE")

	protected.HandleFunc("/beatdowns", beatdownHandler.GetSchedule).Methods("GET")
	protected.HandleFunc("/beatdowns", beatdownHandler.CreateBeatdown).Methods("POST")
	protected.HandleFunc("/beatdowns/{id}", beatdownHandler.GetBeatdown).Methods("GET")
	protected.HandleFunc("/beatdowns/{id}", beatdownHandler.UpdateBeatdown).Methods("PUT")
	protected.HandleFunc("/beatdowns/{id}", beatdownHandler.DeleteBeatdown).Methods("DELETE")
	protected.HandleFunc("/beatdowns/{beatdownId}/attendance", attendanceHandler.GetBeatdownAttendance).Methods("GET")
	protected.HandleFunc("/beatdowns/{beatdownId}/attendance", attendanceHandler.RemoveAttendance).Methods("DELETE")

	protected.HandleFunc("/attendance", attendanceHandler.PostAttendance).Methods("POST")
	protected.HandleFunc("/workouts", attendanceHandler.LogWorkout).Methods("POST")
	protected.HandleFunc("/workouts", attendanceHandler.GetMyWorkouts).Methods("GET")

	protected.HandleFunc("/challenges", challengeHandler.GetActiveChallenges).Methods("GET")
	protected.HandleFunc("/challenges", challengeHandler.CreateChallenge).Methods("POST")
	protected.HandleFunc("/challenges/completed", challengeHandler.GetCompletedChallenges).Methods("GET")
	protected.HandleFunc("/challenges/mine", challengeHandler.GetMyChallenges).Methods("GET")
	protected.HandleFunc("/challenges/{id}", challengeHandler.GetChallengeByID).Methods("GET")
	protected.HandleFunc("/challenges/{id}", challengeHandler.UpdateChallenge).Methods("PUT")
	protected.HandleFunc("/challenges/{id}", challengeHandler.DeleteChallenge).Methods("DELETE")
	protected.HandleFunc("/challenges/{id}/open", challengeHandler.OpenChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{id}/join", challengeHandler.JoinChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{name}/progress", challengeHandler.LogProgress).Methods("POST")
	protected.HandleFunc("/challenges/{name}/attempt", challengeHandler.UpdateAttempt).Methods("PUT")
	protected.HandleFunc("/challenges/{name}/complete", challengeHandler.CompleteChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{name}/withdraw", challengeHandler.Withdraw).Methods("DELETE")
	protected.HandleFunc("/challenges/{name}/participants", challengeHandler.GetParticipants).Methods("GET")
	protected.HandleFunc("/challenges/{name}/leaderboard", challengeHandler.GetLeaderboard).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := ":" + cfg.Server.Port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if leaderboardCache != nil {
		if err := leaderboardCache.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}

	log.Println("Server shutdown complete")
}
