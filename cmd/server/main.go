package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"watchnest/internal/config"
	"watchnest/internal/database"
	"watchnest/internal/handlers"
	"watchnest/internal/metadata"
	"watchnest/internal/repository"
	"watchnest/internal/security"
	"watchnest/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Services
	fromEmail := ""
	if cfg.EmailEnabled {
		fromEmail = cfg.EmailFrom
	}
	emailService, err := service.NewEmailService(cfg.AWSRegion, fromEmail, "WatchNest", cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	groupService := service.NewGroupService(groupRepo, userRepo, emailService)
	authService := service.NewAuthService(userRepo, groupService, emailService, cfg.SessionDuration)
	watchlistService := service.NewWatchlistService(watchlistRepo, userRepo)

	// Metadata client: a key stored through the settings endpoint overrides
	// the environment's key.
	tmdbClient := metadata.NewClient(cfg.TMDBAPIKey)
	if storedKey := settingsRepo.GetTMDBAPIKey(); storedKey != "" {
		tmdbClient.SetAPIKey(storedKey)
	}

	csrfSecret := cfg.CSRFSecret
	if csrfSecret == "" {
		log.Println("Warning: CSRF_SECRET not set, using a random per-process secret")
		csrfSecret = security.GenerateSessionID()
	}
	csrf := security.NewCSRFGenerator(csrfSecret)

	rateLimiter := security.NewRateLimiter(10, time.Minute)

	googleOAuth := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	// Handlers
	middleware := handlers.NewMiddleware(authService, rateLimiter, csrf)
	authHandler := handlers.NewAuthHandler(authService, csrf, googleOAuth, cfg.OAuthRedirectBase)
	groupHandler := handlers.NewGroupHandler(groupService)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService)
	metadataHandler := handlers.NewMetadataHandler(tmdbClient, settingsRepo)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", handlers.Health(db))

	// Auth
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /api/auth/csrf", middleware.RequireAuth(authHandler.CSRFToken))
	mux.HandleFunc("POST /api/auth/forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /api/auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleOAuthCallback)

	// Family groups
	mux.HandleFunc("POST /api/groups", middleware.RequireAuth(middleware.CSRFProtect(groupHandler.Create)))
	mux.HandleFunc("GET /api/groups/mine", middleware.RequireAuth(groupHandler.Get))
	mux.HandleFunc("POST /api/groups/join", middleware.RequireAuth(middleware.CSRFProtect(groupHandler.Join)))
	mux.HandleFunc("POST /api/groups/leave", middleware.RequireAuth(middleware.CSRFProtect(groupHandler.Leave)))
	mux.HandleFunc("POST /api/groups/invite", middleware.RequireAuth(middleware.CSRFProtect(groupHandler.Invite)))

	// Watchlist
	mux.HandleFunc("GET /api/watchlist", middleware.RequireAuth(watchlistHandler.List))
	mux.HandleFunc("POST /api/watchlist", middleware.RequireAuth(middleware.CSRFProtect(watchlistHandler.Add)))
	mux.HandleFunc("PATCH /api/watchlist/{id}", middleware.RequireAuth(middleware.CSRFProtect(watchlistHandler.Update)))
	mux.HandleFunc("DELETE /api/watchlist/{id}", middleware.RequireAuth(middleware.CSRFProtect(watchlistHandler.Delete)))
	mux.HandleFunc("GET /api/watchlist/shared", middleware.RequireAuth(watchlistHandler.Shared))
	mux.HandleFunc("GET /api/watchlist/shared/pick", middleware.RequireAuth(watchlistHandler.RandomPick))

	// Movie metadata
	mux.HandleFunc("GET /api/metadata/search", middleware.RequireAuth(metadataHandler.Search))
	mux.HandleFunc("GET /api/metadata/settings", middleware.RequireAuth(metadataHandler.GetSettings))
	mux.HandleFunc("PUT /api/metadata/settings", middleware.RequireAuth(middleware.CSRFProtect(metadataHandler.UpdateSettings)))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background session cleanup
	go cleanupExpiredSessions(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions and reset tokens
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
