package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wellyonfilm/internal/auth"
	"wellyonfilm/internal/config"
	"wellyonfilm/internal/database"
	"wellyonfilm/internal/handlers"
	"wellyonfilm/internal/jobs"
	"wellyonfilm/internal/repository"
	"wellyonfilm/internal/services"
	"wellyonfilm/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Community timezone for submission windows
	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatalf("Failed to load timezone %s: %v", cfg.App.Timezone, err)
	}

	// Photo storage
	photoStorage, err := storage.NewLocalStorage(
		getEnvDefault("STORAGE_DIR", "uploads"),
		getEnvDefault("STORAGE_BASE_URL", "/static"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// Initialize services
	authService := services.NewAuthService(database.GetDB())
	userService := services.NewUserService(database.GetDB())
	monthService := services.NewMonthService(database.GetDB(), location,
		cfg.Submission.OpenDay, cfg.Submission.CloseDay)
	submissionService := services.NewSubmissionService(database.GetDB(), photoStorage, cfg.Submission)
	judgingService := services.NewJudgingService(database.GetDB(), repo)
	finalizeService := services.NewFinalizeService(database.GetDB(), repo)
	raffleService := services.NewRaffleService(database.GetDB(), repo)
	statsService := services.NewStatsService(database.GetDB())
	commentService := services.NewCommentService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, submissionService)
	monthHandler := handlers.NewMonthHandler(monthService, statsService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, commentService)
	judgingHandler := handlers.NewJudgingHandler(judgingService)
	adminHandler := handlers.NewAdminHandler(monthService, judgingService,
		finalizeService, raffleService, submissionService, userService)

	// Start month transition job (checks every 10 minutes)
	transitionJob := jobs.NewMonthTransition(monthService, 10*time.Minute)
	go transitionJob.Start()
	log.Println("Month transition job started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"https://wellyonfilm.nz",
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public routes
	router.GET("/api/month/current", monthHandler.GetCurrentMonth)
	router.GET("/api/months", monthHandler.ListMonths)
	router.GET("/api/months/:monthYear", monthHandler.GetMonth)
	router.GET("/api/archive", monthHandler.GetArchive)
	router.GET("/api/stats", monthHandler.GetCommunityStats)
	router.GET("/api/months/:monthYear/submissions", submissionHandler.GetSubmissionsByMonth)
	router.GET("/api/months/:monthYear/cards", submissionHandler.GetSubmissionCards)
	router.GET("/api/months/:monthYear/featured", submissionHandler.GetFeatured)
	router.GET("/api/months/:monthYear/judges", judgingHandler.GetPanel)
	router.GET("/api/submissions/:id", submissionHandler.GetSubmission)
	router.GET("/api/submissions/:id/comments", submissionHandler.ListComments)
	router.GET("/api/users/:id/submissions", userHandler.GetUserSubmissions)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("/profile", userHandler.GetProfile)
			userRoutes.PATCH("/profile", userHandler.UpdateProfile)
			userRoutes.DELETE("/profile", userHandler.DeleteAccount)
		}

		// Submission endpoints
		api.POST("/submissions", submissionHandler.CreateSubmission)
		api.PATCH("/submissions/:id", submissionHandler.EditMetadata)
		api.DELETE("/submissions/:id", submissionHandler.DeleteSubmission)
		api.POST("/submissions/:id/comments", submissionHandler.CreateComment)

		// Judging endpoints
		api.POST("/submissions/:id/actions", judgingHandler.RecordAction)
		api.GET("/submissions/:id/judging", judgingHandler.GetJudgingStatus)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.POST("/months", adminHandler.CreateMonth)
		admin.POST("/months/:monthYear/judging", adminHandler.BeginJudging)
		admin.POST("/months/:monthYear/judges", adminHandler.AssignJudge)
		admin.POST("/months/:monthYear/finalize", adminHandler.FinalizeMonth)
		admin.POST("/months/:monthYear/raffle", adminHandler.RunRaffle)
		admin.GET("/months/:monthYear/raffle", adminHandler.GetRaffleWinner)
		admin.GET("/months/:monthYear/moderation", adminHandler.GetModerationQueue)
		admin.POST("/submissions/:id/moderate", adminHandler.ModerateSubmission)
		admin.GET("/users", adminHandler.GetUsers)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	transitionJob.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func getEnvDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
