package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lms-availability-api/api/swagger"
	"github.com/noah-isme/lms-availability-api/internal/handler"
	"github.com/noah-isme/lms-availability-api/internal/middleware"
	"github.com/noah-isme/lms-availability-api/internal/models"
	"github.com/noah-isme/lms-availability-api/internal/repository"
	"github.com/noah-isme/lms-availability-api/internal/service"
	"github.com/noah-isme/lms-availability-api/pkg/cache"
	"github.com/noah-isme/lms-availability-api/pkg/config"
	"github.com/noah-isme/lms-availability-api/pkg/database"
	"github.com/noah-isme/lms-availability-api/pkg/jobs"
	"github.com/noah-isme/lms-availability-api/pkg/logger"
	"github.com/noah-isme/lms-availability-api/pkg/messaging"
	corsmiddleware "github.com/noah-isme/lms-availability-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lms-availability-api/pkg/middleware/requestid"
)

// @title LMS Availability API
// @version 1.0.0
// @description Instructor time-slot availability scheduler
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher service.NoticePublisher
	if cfg.AMQP.URL != "" {
		p, err := messaging.Dial(cfg.AMQP.URL, cfg.AMQP.NoticeQueue, logr.Named("amqp"))
		if err != nil {
			logr.Warn("amqp unavailable, notices will only be stored", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	instructorRepo := repository.NewInstructorRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	sessionRepo := repository.NewTeachingSessionRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	var queue *jobs.Queue
	var enqueuer service.JobEnqueuer
	if cfg.Notices.Enabled {
		queue = jobs.NewQueue("availability-notices", jobs.QueueConfig{
			Workers:    cfg.Notices.Workers,
			MaxRetries: cfg.Notices.Retries,
			RetryDelay: cfg.Notices.RetryDelay,
			Logger:     logr,
		})
		enqueuer = queue
	}

	noticeSvc := service.NewNoticeService(noticeRepo, publisher, enqueuer, metrics, validate, logr.Named("notices"))
	if queue != nil {
		queue.Register(service.NoticeJobType, noticeSvc.HandleJob)
		queue.Start(ctx)
		defer queue.Stop()
	}

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Availability.CacheTTL, logr.Named("cache"), cfg.Availability.CacheEnabled && redisClient != nil)
	occupancySvc := service.NewOccupancyService(sessionRepo, metrics, logr.Named("occupancy"))
	availabilitySvc := service.NewAvailabilityService(
		instructorRepo,
		availabilityRepo,
		occupancySvc,
		noticeSvc,
		cacheSvc,
		metrics,
		validate,
		logr.Named("availability"),
		service.AvailabilityConfig{MaxWindowDays: cfg.Availability.MaxWindowDays, CacheTTL: cfg.Availability.CacheTTL},
	)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, readinessChecks(db, redisClient))
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), tokenSvc,
		handler.NewAvailabilityHandler(availabilitySvc),
		handler.NewNoticeHandler(noticeSvc),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func registerRoutes(api *gin.RouterGroup, tokens *service.TokenService, availability *handler.AvailabilityHandler, notices *handler.NoticeHandler) {
	api.Use(middleware.JWT(tokens))

	owner := middleware.RBAC(string(models.RoleSuperAdmin), string(models.RoleAdmin), middleware.Self)
	instructors := api.Group("/instructors/:id/availability", owner)
	instructors.GET("", availability.GetWindow)
	instructors.PUT("/window", availability.ReplaceWindow)
	instructors.POST("/recurring", availability.AddRecurring)
	instructors.POST("/recurring/expand", availability.ExpandRecurring)
	instructors.GET("/grid", availability.Grid)
	instructors.GET("/export", availability.Export)

	catalog := api.Group("/availability")
	catalog.GET("/timeslots", availability.TimeSlots)
	catalog.GET("/weeks", availability.Weeks)
	catalog.GET("/notices", notices.List)
	catalog.POST("/notices/:notice_id/read", notices.MarkRead)
}

func readinessChecks(db *sqlx.DB, rdb *redis.Client) map[string]handler.Pinger {
	checks := map[string]handler.Pinger{
		"postgres": db.PingContext,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
