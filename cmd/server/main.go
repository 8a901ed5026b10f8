package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	analyticsapp "github.com/storefront/backend/internal/application/analytics"
	auditapp "github.com/storefront/backend/internal/application/audit"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	contentapp "github.com/storefront/backend/internal/application/content"
	geoapp "github.com/storefront/backend/internal/application/geo"
	identityapp "github.com/storefront/backend/internal/application/identity"
	salesapp "github.com/storefront/backend/internal/application/sales"
	settingsapp "github.com/storefront/backend/internal/application/settings"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/geocoding"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/printing"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// loginAttemptsPerMinute bounds credential requests per client IP
const loginAttemptsPerMinute = 10

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
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.IsProduction(),
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = logsProvider.Bridge(log)
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler stop failed", zap.Error(err))
		}
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Warn("Meter provider shutdown failed", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
		if err := logsProvider.Shutdown(ctx); err != nil {
			log.Warn("Logger provider shutdown failed", zap.Error(err))
		}
	}()

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, log).Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Cache: Redis when enabled, in-memory otherwise
	sharedCache, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).Create()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	colorRepo := persistence.NewGormColorRepository(db.DB)
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	adminLogRepo := persistence.NewGormAdminLogRepository(db.DB)
	homePageRepo := persistence.NewGormHomePageRepository(db.DB)
	paymentSettingsRepo := persistence.NewGormPaymentSettingsRepository(db.DB)

	// Audit trail, recorded by every mutating service
	auditService := auditapp.NewService(adminLogRepo, log)

	// Object storage for product images
	var imageStorage catalogapp.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiry(cfg.Storage.PresignExpiry),
		)
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Image bucket check failed", zap.String("bucket", s3Storage.Bucket()), zap.Error(err))
		}
		cancel()
		imageStorage = s3Storage
	} else {
		log.Warn("Object storage disabled, image uploads use the in-memory stub")
		imageStorage = storage.NewStubImageStorage()
	}

	// Invoice PDFs
	var invoiceRenderer salesapp.InvoiceRenderer
	if cfg.Printing.Enabled {
		paperSize, ok := printing.ParsePaperSize(cfg.Printing.PaperFormat)
		if !ok {
			log.Fatal("Unsupported paper format", zap.String("paper_format", cfg.Printing.PaperFormat))
		}
		chromeRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			if err := chromeRenderer.Close(); err != nil {
				log.Warn("Failed to close PDF renderer", zap.Error(err))
			}
		}()
		invoicePrinter, err := printing.NewInvoicePrinter(chromeRenderer, paperSize)
		if err != nil {
			log.Fatal("Failed to initialize invoice printer", zap.Error(err))
		}
		invoiceRenderer = invoicePrinter
		log.Info("Invoice printing enabled", zap.String("paper_format", string(paperSize)))
	}

	// Reverse geocoding, cached and throttled
	geocoder := geocoding.NewNominatimClient(cfg.Geocoding,
		geocoding.WithCache(sharedCache, 24*time.Hour),
		geocoding.WithLogger(log),
	)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewCacheTokenBlacklist(sharedCache)
	authConfig := identityapp.DefaultAuthServiceConfig()
	if cfg.JWT.RefreshTokenExpiration > authConfig.RevokeTTL {
		authConfig.RevokeTTL = cfg.JWT.RefreshTokenExpiration
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, auditService, authConfig, log)
	userService := identityapp.NewUserService(userRepo, vendorRepo, tokenBlacklist, auditService, authConfig, log)
	vendorService := identityapp.NewVendorService(vendorRepo, auditService, log)

	// Catalog services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, discountRepo, reviewRepo, auditService,
		catalogapp.ImportConfig{
			MaxItems:      cfg.Import.MaxItems,
			ImportTimeout: cfg.Import.ImportTimeout,
			UpdateTimeout: cfg.Import.UpdateTimeout,
		}, log)
	imageService := catalogapp.NewImageService(productRepo, imageStorage, auditService, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, auditService, log)
	colorService := catalogapp.NewColorService(colorRepo, auditService, log)
	materialService := catalogapp.NewMaterialService(materialRepo, auditService, log)
	discountService := catalogapp.NewDiscountService(discountRepo, productRepo, auditService, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo, auditService, log)

	// Sales, content and back-office services
	orderService := salesapp.NewOrderService(salesapp.OrderServiceDeps{
		Orders:    orderRepo,
		Products:  productRepo,
		Discounts: discountRepo,
		Vendors:   vendorRepo,
		Settings:  paymentSettingsRepo,
		Renderer:  invoiceRenderer,
		Recorder:  auditService,
	}, log)
	contentService := contentapp.NewService(homePageRepo, sharedCache, cfg.Content.CacheTTL, auditService, log)
	settingsService := settingsapp.NewService(paymentSettingsRepo, auditService, log)
	analyticsService := analyticsapp.NewService(orderRepo, productRepo, userRepo, log)
	geoService := geoapp.NewService(geocoder, log)

	// Business metrics
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:    meterProvider.Meter("storefront"),
		Logger:   log,
		LowStock: productService,
	})
	if err != nil {
		log.Warn("Business metrics disabled", zap.Error(err))
	}
	authService.SetBusinessMetrics(businessMetrics)
	orderService.SetBusinessMetrics(businessMetrics)
	contentService.SetBusinessMetrics(businessMetrics)
	geoService.SetBusinessMetrics(businessMetrics)

	// Handlers
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService),
		Product:   handler.NewProductHandler(productService, imageService),
		Category:  handler.NewCategoryHandler(categoryService),
		Color:     handler.NewColorHandler(colorService),
		Material:  handler.NewMaterialHandler(materialService),
		Discount:  handler.NewDiscountHandler(discountService),
		Review:    handler.NewReviewHandler(reviewService),
		Order:     handler.NewOrderHandler(orderService),
		User:      handler.NewUserHandler(userService),
		Vendor:    handler.NewVendorHandler(vendorService),
		AdminLog:  handler.NewAdminLogHandler(auditService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Content:   handler.NewContentHandler(contentService),
		Geo:       handler.NewGeoHandler(geoService),
	}

	// Rate limiters, swept in the background until shutdown
	stopSweep := make(chan struct{})
	defer close(stopSweep)

	loginLimiter := middleware.NewRateLimiter(loginAttemptsPerMinute, time.Minute)
	go loginLimiter.Run(stopSweep)
	guards := router.Guards{
		Auth:     middleware.JWTAuth(authService, log),
		Identify: middleware.OptionalJWTAuth(authService),
		LoginLimit: middleware.RateLimitByKey(loginLimiter, func(c *gin.Context) string {
			return "login:" + c.ClientIP()
		}),
	}

	// Gin engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics := telemetry.NewHTTPMetrics()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.TraceHeaders(),
		middleware.Profiling(profiler.IsEnabled()),
		logger.GinMiddleware(log, logger.WithQuietPaths("/health", "/metrics")),
		middleware.Metrics(httpMetrics),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitEnabled {
		apiLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go apiLimiter.Run(stopSweep)
		engine.Use(middleware.RateLimit(apiLimiter))
	}

	// System routes outside /api/v1
	systemHandler := handler.NewSystemHandler(db, version)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/metrics", gin.WrapH(httpMetrics.Handler()))

	// Import and bulk update are LongRunning and use the import timeouts
	r := router.NewRouter(engine, router.WithRequestTimeout(cfg.HTTP.RequestTimeout))
	for _, group := range router.APIGroups(handlers, guards) {
		r.Register(group.Use(middleware.SpanAttributes()))
	}
	r.Setup()
	log.Info("Routes registered", zap.Int("count", len(r.Routes())), zap.String("prefix", r.Prefix()))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
