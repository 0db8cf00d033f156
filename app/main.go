package main

import (
	"bazaar/config"
	"bazaar/delivery"
	"bazaar/middleware"
	"bazaar/repository"
	"bazaar/service"
	"bazaar/utils"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// sellerTokenValidity is deliberately shorter than the base login
// token; elevation expires within a day.
const sellerTokenValidity = 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	env := os.Getenv("APP_ENV")
	utils.InitLogger(env)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterCustomValidations(v)
	}

	db, err := config.BootDB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET not found in env")
	}
	if len(jwtSecret) < 32 {
		log.Fatal().Msg("JWT_SECRET must be at least 32 characters. Generate one with: openssl rand -base64 32")
	}

	// Redis backs the transport-level IP limiter only; the API runs
	// without it, minus that protection.
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient, err := config.InitRedisDB(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		middleware.InitRateLimiter(redisClient)
		defer redisClient.Close()
	} else {
		log.Warn().Msg("REDIS_ADDR not set, transport rate limiting disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, jwtSecret)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo)
	sellerTokens := utils.NewJWTManager(jwtSecret, sellerTokenValidity)
	otpService := service.NewOTPService(otpRepo, sellerTokens, utils.NewSMTPSenderFromEnv(), env == "development")

	if env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	app := gin.New()
	config.InitMiddleware(app)
	app.Use(middleware.RateLimiter())

	// Health routes
	app.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Bazaar API is running"})
	})
	app.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Handlers
	tokens := authService.GetTokenManager()
	delivery.NewAuthHandler(app, authService)
	delivery.NewOTPHandler(app, otpService, middleware.AuthRequired(tokens))
	delivery.NewProductHandler(app, productService, tokens)
	delivery.NewUserHandler(app, userService, tokens)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "5000"
	}

	srv := &http.Server{
		Addr:           ":" + port,
		Handler:        app,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("server exited gracefully")
}
