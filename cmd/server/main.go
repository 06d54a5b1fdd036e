package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"localspot/internal/config"
	"localspot/internal/handlers"
	"localspot/internal/middleware"
	"localspot/internal/repositories/mongodb"
	"localspot/internal/services"
	"localspot/pkg/cache"
	"localspot/pkg/database"
	"localspot/pkg/logger"
	"localspot/pkg/maps"
	"localspot/pkg/ml"
	"localspot/routes"

	"github.com/gin-gonic/gin"
)

// newContentScanner selects the moderation engine. The denylist scanner is
// the default; the classifier adds heuristic spam scoring on top of no
// fixed term list.
func newContentScanner(cfg *config.ModerationConfig) services.ContentScanner {
	if cfg.Engine == "classifier" {
		return ml.NewSpamClassifier(cfg.ClassifierThreshold)
	}
	return services.NewTermListScanner(cfg.Denylist)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger
	logFormat := "text"
	if config.IsProduction() {
		logFormat = "json"
	}
	log, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     logFormat,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
		Colors:     config.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	// Collection indexes
	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	cacheService := services.NewCacheService(redisCache, log, 15*time.Minute)

	// Repositories
	businessRepo := mongodb.NewBusinessRepository(db.Database, cacheService)
	reviewRepo := mongodb.NewReviewRepository(db.Database, cacheService)
	profileRepo := mongodb.NewReviewerProfileRepository(db.Database, cacheService)
	auditRepo := mongodb.NewAuditLogRepository(db.Database)

	// Services
	scanner := newContentScanner(cfg.Moderation)
	moderationService := services.NewModerationService(scanner, cfg.Moderation.Timeout, log)
	reviewService := services.NewReviewService(reviewRepo, businessRepo, profileRepo, auditRepo, moderationService, cacheService, log)
	businessService := services.NewBusinessService(businessRepo, reviewRepo, cacheService, log)

	// Geocoder is optional; without an API key "near" queries simply do
	// not resolve to coordinates.
	var geocoder maps.Geocoder
	if cfg.Maps.Enabled() {
		geocoder, err = maps.NewGoogleMapsGeocoder(cfg.Maps.GoogleMaps.APIKey)
		if err != nil {
			log.WithError(err).Fatal("Failed to create geocoder")
		}
	} else {
		log.Warn("Geocoding disabled, GOOGLE_MAPS_API_KEY not set")
	}

	// Handlers
	businessHandler := handlers.NewBusinessHandler(businessService, geocoder, cfg.Search)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Router
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	v1 := router.Group("/api/v1")
	{
		routes.SetupBusinessRoutes(v1, businessHandler, cfg.Security.JWTSecret)
		routes.SetupReviewRoutes(v1, reviewHandler, cfg.Security.JWTSecret)
	}

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		health := gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		}
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			health["status"] = "degraded"
			health["mongodb"] = err.Error()
		}
		if err := cacheService.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			health["status"] = "degraded"
			health["redis"] = err.Error()
		}
		c.JSON(status, health)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}
