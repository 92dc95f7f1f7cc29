package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"contesthub/internal/config"
	"contesthub/internal/database"
	"contesthub/internal/middleware"
	"contesthub/internal/modules/auth"
	"contesthub/internal/modules/contest"
	"contesthub/internal/modules/leaderboard"
	"contesthub/internal/modules/payment"
	"contesthub/internal/modules/submission"
	jwtsvc "contesthub/internal/pkg/jwt"
	"contesthub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	contestRepo := repository.NewContestRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	authService := auth.NewService(userRepo, j, cfg.AdminEmail)
	authHandler := auth.NewHandler(authService)

	contestService := contest.NewService(contestRepo)
	contestHandler := contest.NewHandler(contestService)

	// no gateway client is wired in test mode; the payment service treats a
	// nil gateway as the test-mode sentinel path
	var gateway payment.Gateway
	if !cfg.GatewayTestMode {
		log.Fatal("no payment gateway configured; set GATEWAY_TEST_MODE=true")
	}

	paymentService := payment.NewService(
		contestRepo,
		userRepo,
		paymentRepo,
		gateway,
		cfg.GatewayTimeout,
		cfg.MinWithdrawal,
		log.Printf,
	)
	paymentHandler := payment.NewHandler(paymentService)

	submissionService := submission.NewService(
		contestRepo,
		submissionRepo,
		userRepo,
		paymentRepo,
		cfg.Distribution(),
		cfg.PointsPerWin,
		log.Printf,
	)
	submissionHandler := submission.NewHandler(submissionService)

	leaderboardService := leaderboard.NewService(userRepo, contestRepo, submissionRepo)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)

	reconciler, err := submission.NewReconciler(submissionService, cfg.ReconcileInterval, log.Printf)
	if err != nil {
		log.Fatal(err)
	}
	reconciler.Start()
	defer reconciler.Stop() //nolint:errcheck

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Limit:  cfg.RateLimit,
		Window: cfg.RateWindow,
	})
	defer limiter.Stop()

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public, rate limited by client IP
		public := v1.Group("/")
		public.Use(limiter.Middleware())
		{
			contestHandler.RegisterPublicRoutes(public)
			leaderboardHandler.RegisterRoutes(public)
		}

		// protected, rate limited by authenticated user id
		protected := v1.Group("/")
		protected.Use(middleware.Auth(authService), limiter.Middleware())
		{
			authHandler.RegisterRoutes(protected)
			contestHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			submissionHandler.RegisterRoutes(protected)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				authHandler.RegisterAdminRoutes(admin)
				contestHandler.RegisterAdminRoutes(admin)
				submissionHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
