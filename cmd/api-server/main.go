package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"readhub/database"
	"readhub/internal/cache"
	"readhub/internal/config"
	"readhub/internal/http-api/handler"
	"readhub/internal/http-api/middleware"
	"readhub/internal/http-api/repository"
	"readhub/internal/http-api/service"
	"readhub/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close(db)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepo(db)
	progressRepo := repository.NewProgressRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Stale refresh tokens accumulate between restarts; sweep them now.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if removed, err := refreshTokenRepo.DeleteExpired(startupCtx); err != nil {
		log.Warn().Err(err).Msg("expired token sweep failed")
	} else if removed > 0 {
		log.Info().Int64("removed", removed).Msg("swept expired refresh tokens")
	}
	cancelStartup()

	// The leaderboard cache is optional; without Redis every request
	// recomputes the board from the database.
	lbCache, err := cache.NewLeaderboardCache(cfg.RedisAddr, cfg.RedisPassword, cfg.LeaderboardCacheTTL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, leaderboard caching disabled")
		lbCache = nil
	} else {
		defer lbCache.Close()
	}

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	bookService := service.NewBookService(bookRepo, progressRepo, summaryRepo)
	progressService := service.NewProgressService(db, progressRepo, bookRepo)
	summaryService := service.NewSummaryService(db, summaryRepo, bookRepo)
	commentService := service.NewCommentService(commentRepo, bookRepo, summaryRepo)
	statsService := service.NewStatsService(userRepo, progressRepo, summaryRepo)
	leaderboardService := service.NewLeaderboardService(userRepo, progressRepo, summaryRepo, lbCache)
	userService := service.NewUserService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	bookHandler := handler.NewBookHandler(bookService, summaryService, commentService)
	progressHandler := handler.NewProgressHandler(progressService)
	summaryHandler := handler.NewSummaryHandler(summaryService, commentService)
	commentHandler := handler.NewCommentHandler(commentService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	dashboardHandler := handler.NewDashboardHandler(statsService)
	userHandler := handler.NewUserHandler(userService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMW := middleware.AuthMiddleware(authService)
	loginLimiter := middleware.LoginRateLimiter(cfg.LoginRatePerSecond, cfg.LoginRateBurst)

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"), loginLimiter)
	bookHandler.RegisterRoutes(api.Group("/books"), authMW)
	progressHandler.RegisterRoutes(api.Group("/progress", authMW))
	summaryHandler.RegisterRoutes(api.Group("/summaries"), authMW)
	commentHandler.RegisterRoutes(api.Group("/comments", authMW))
	leaderboardHandler.RegisterRoutes(api.Group("/leaderboard"))
	dashboardHandler.RegisterRoutes(api.Group("/dashboard", authMW))
	userHandler.RegisterRoutes(api.Group("/users", authMW))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Str("env", cfg.GoEnv).Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
