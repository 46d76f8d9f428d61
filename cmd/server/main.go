package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	partnerapp "github.com/optierp/backend/internal/application/partner"
	trackingapp "github.com/optierp/backend/internal/application/tracking"
	"github.com/optierp/backend/internal/domain/tracking"
	"github.com/optierp/backend/internal/infrastructure/auth"
	"github.com/optierp/backend/internal/infrastructure/cache"
	"github.com/optierp/backend/internal/infrastructure/config"
	"github.com/optierp/backend/internal/infrastructure/logger"
	"github.com/optierp/backend/internal/infrastructure/persistence"
	"github.com/optierp/backend/internal/infrastructure/persistence/models"
	"github.com/optierp/backend/internal/interfaces/http/handler"
	"github.com/optierp/backend/internal/interfaces/http/middleware"
	"github.com/optierp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OptiERP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Run schema migrations
	if err := db.DB.AutoMigrate(
		&models.CustomerModel{},
		&models.PatientModel{},
		&models.CodeSequenceModel{},
		&models.OrderTrackingModel{},
		&models.StatusEntryModel{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Token index: Redis when reachable, otherwise in-process fallback
	var tokenIndex cache.TokenIndex
	redisIndex, err := cache.NewRedisTokenIndex(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token index", zap.Error(err))
		tokenIndex = cache.NewInMemoryTokenIndex()
	} else {
		log.Info("Redis token index connected")
		tokenIndex = redisIndex
	}
	defer func() {
		if err := tokenIndex.Close(); err != nil {
			log.Error("Error closing token index", zap.Error(err))
		}
	}()

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	var trackingRepo tracking.Repository = persistence.NewGormTrackingRepository(db.DB)
	trackingRepo = persistence.NewIndexedTrackingRepository(trackingRepo, tokenIndex, log)

	// Initialize application services
	customerService := partnerapp.NewCustomerService(customerRepo, patientRepo)
	loyaltyService := partnerapp.NewLoyaltyService(customerRepo)
	trackingService := trackingapp.NewService(trackingRepo, customerRepo, cfg.Tracking.PublicBaseURL)

	// Initialize auth service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyService)
	trackingHandler := handler.NewTrackingHandler(trackingService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Public tracking lookup. Unauthenticated and rate limited more
	// aggressively than the staff API since it faces the open internet.
	publicLimiter := middleware.NewRateLimiter(cfg.Tracking.PublicRateLimitRequests, cfg.Tracking.PublicRateLimitWindow)
	engine.GET("/track/:token", middleware.RateLimit(publicLimiter), trackingHandler.PublicLookup)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	authRequired := middleware.JWTAuth(jwtService)

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.Use(authRequired)
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/search", customerHandler.Search)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.GET("/customers/code/:code", customerHandler.GetByCode)
	partnerRoutes.GET("/customers/:id/summary", customerHandler.GetSummary)
	partnerRoutes.PUT("/customers/:id/segment", customerHandler.UpdateSegment)
	partnerRoutes.PUT("/customers/:id/credit", customerHandler.SetCreditTerms)
	partnerRoutes.POST("/customers/:id/activate", customerHandler.Activate)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)
	partnerRoutes.POST("/customers/:id/patients", customerHandler.AddPatient)
	partnerRoutes.GET("/customers/:id/patients", customerHandler.ListPatients)
	partnerRoutes.POST("/customers/:id/loyalty/purchases", loyaltyHandler.RecordPurchase)
	partnerRoutes.POST("/customers/:id/loyalty/redemptions", loyaltyHandler.RedeemPoints)
	partnerRoutes.GET("/customers/:id/loyalty", loyaltyHandler.Balance)
	partnerRoutes.GET("/customers/:id/trackings", trackingHandler.ListByCustomer)

	trackingRoutes := router.NewDomainGroup("tracking", "/tracking")
	trackingRoutes.Use(authRequired)
	trackingRoutes.POST("/records", trackingHandler.Create)
	trackingRoutes.GET("/records/:id", trackingHandler.GetByID)
	trackingRoutes.POST("/records/:id/status", trackingHandler.UpdateStatus)
	trackingRoutes.GET("/orders/:order_id", trackingHandler.GetByOrderID)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(partnerRoutes).
		Register(trackingRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
