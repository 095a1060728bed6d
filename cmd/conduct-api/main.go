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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vsu-ncs/conduct-api/api/swagger"
	"github.com/vsu-ncs/conduct-api/internal/handler"
	"github.com/vsu-ncs/conduct-api/internal/middleware"
	"github.com/vsu-ncs/conduct-api/internal/models"
	"github.com/vsu-ncs/conduct-api/internal/repository"
	"github.com/vsu-ncs/conduct-api/internal/service"
	"github.com/vsu-ncs/conduct-api/internal/transform"
	"github.com/vsu-ncs/conduct-api/pkg/cache"
	"github.com/vsu-ncs/conduct-api/pkg/config"
	"github.com/vsu-ncs/conduct-api/pkg/database"
	"github.com/vsu-ncs/conduct-api/pkg/logger"
	"github.com/vsu-ncs/conduct-api/pkg/mailer"
	corsmiddleware "github.com/vsu-ncs/conduct-api/pkg/middleware/cors"
	reqidmiddleware "github.com/vsu-ncs/conduct-api/pkg/middleware/requestid"
)

// @title VSU NCS Conduct API
// @version 1.0.0
// @description Conduct ledger for the VSU nursing program
// @BasePath /api/v1
// @schemes http
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, balance caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := service.NewValidator()

	// Repositories.
	conductRepo := repository.NewConductRepository(db)
	serviceLogRepo := repository.NewServiceLogRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "vsu-ncs-conduct-api",
	})
	notificationSvc := service.NewNotificationService(userRepo, mailer.NewSMTPSender(cfg.SMTP), metricsSvc, logr, cfg.Notifications)
	transformer := transform.New(logr)
	recordSvc := service.NewRecordService(conductRepo, serviceLogRepo, studentRepo, cacheRepo, transformer, metricsSvc, logr, cfg.Balance.CacheTTL)
	conductSvc := service.NewConductService(conductRepo, serviceLogRepo, studentRepo, staffRepo, userRepo, cacheRepo, notificationSvc, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(conductRepo, studentRepo, userRepo, logr, cfg.Exports)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notificationSvc.Start(rootCtx)
	defer notificationSvc.Stop()

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(recordSvc)
	facultyHandler := handler.NewFacultyHandler(recordSvc)
	conductHandler := handler.NewConductHandler(conductSvc)
	infractionHandler := handler.NewInfractionHandler(recordSvc, conductSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancelPing := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancelPing()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	students := protected.Group("/students/:id")
	students.Use(middleware.RBAC(string(models.RoleAdmin), string(models.RoleFaculty), middleware.SelfRole))
	students.GET("/records", studentHandler.Records)
	students.GET("/service-logs", studentHandler.ServiceLogs)
	students.GET("/balance", studentHandler.Balance)
	students.GET("/export", exportHandler.Export)

	faculty := protected.Group("/faculty/:id")
	faculty.Use(middleware.RBAC(string(models.RoleAdmin), middleware.SelfRole))
	faculty.GET("/records", facultyHandler.Records)
	faculty.GET("/service-logs", facultyHandler.ServiceLogs)

	filing := protected.Group("")
	filing.Use(middleware.RequireRoles(models.RoleFaculty, models.RoleAdmin))
	filing.POST("/conduct-records", middleware.Audit(userRepo, models.AuditActionAPIWrite, "conduct_records"), conductHandler.FileRecord)
	filing.POST("/service-logs", middleware.Audit(userRepo, models.AuditActionAPIWrite, "service_logs"), conductHandler.FileServiceLog)

	infractions := protected.Group("/infractions")
	infractions.GET("", middleware.RequireRoles(models.RoleFaculty, models.RoleAdmin), infractionHandler.List)
	infractions.POST("/:id/resolve", middleware.RequireRoles(models.RoleAdmin), middleware.Audit(userRepo, models.AuditActionAPIWrite, "infraction_resolutions"), infractionHandler.Resolve)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
