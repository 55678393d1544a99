package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/classtrack/classtrack-api/api/swagger"
	"github.com/classtrack/classtrack-api/internal/handler"
	"github.com/classtrack/classtrack-api/internal/middleware"
	"github.com/classtrack/classtrack-api/internal/service"
	"github.com/classtrack/classtrack-api/internal/store"
	"github.com/classtrack/classtrack-api/internal/syncstore"
	"github.com/classtrack/classtrack-api/pkg/cache"
	"github.com/classtrack/classtrack-api/pkg/config"
	"github.com/classtrack/classtrack-api/pkg/database"
	"github.com/classtrack/classtrack-api/pkg/logger"
	corsmiddleware "github.com/classtrack/classtrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/classtrack/classtrack-api/pkg/middleware/requestid"
	"github.com/classtrack/classtrack-api/pkg/storage"
)

// @title ClassTrack API
// @version 1.0.0
// @description Classroom roster and attendance tracking service
// @BasePath /api/v1
// @schemes http

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

	metrics := service.NewMetricsService()

	var adapter syncstore.Adapter
	if cfg.Database.Host != "" {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
		}
		defer db.Close() //nolint:errcheck
		adapter = syncstore.NewDocumentStore(db)
	} else {
		logr.Warn("no database configured, documents will not survive a restart")
		adapter = syncstore.NewMemoryAdapter()
	}

	if cfg.Cache.Enabled && cfg.Redis.Host != "" {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		} else {
			defer client.Close() //nolint:errcheck
			adapter = syncstore.NewCachedAdapter(adapter, client, cfg.Cache.TTL, logr, metrics)
		}
	}

	roster := store.NewRoster(adapter, logr)
	ledger := store.NewLedger(adapter, roster, logr)
	users := store.NewUsers(adapter)

	hydrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := roster.Hydrate(hydrateCtx); err != nil {
		logr.Sugar().Fatalw("failed to hydrate roster", "error", err)
	}
	if err := ledger.Hydrate(hydrateCtx); err != nil {
		logr.Sugar().Fatalw("failed to hydrate ledger", "error", err)
	}
	if err := users.Hydrate(hydrateCtx); err != nil {
		logr.Sugar().Fatalw("failed to hydrate users", "error", err)
	}

	validate := validator.New()

	authService := service.NewAuthService(users, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	rosterService := service.NewRosterService(roster, validate, logr)
	attendanceService := service.NewAttendanceService(ledger, roster, validate, logr)
	summaryService := service.NewSummaryService(roster, ledger, metrics, logr)

	var exportStore *storage.ExportStore
	var signer *storage.Signer
	if es, err := storage.NewExportStore(cfg.Export.Dir); err != nil {
		logr.Sugar().Warnw("export directory unavailable, download links disabled", "error", err)
	} else {
		exportStore = es
		signer = storage.NewSigner(cfg.JWT.Secret, cfg.Export.LinkTTL)
	}
	exportService := service.NewExportService(summaryService, exportStore, signer, logr)
	dashboardService := service.NewDashboardService(roster, ledger, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r, cfg.APIPrefix, handler.Routes{
		Auth:        handler.NewAuthHandler(authService),
		Students:    handler.NewStudentHandler(rosterService),
		Classes:     handler.NewClassHandler(rosterService),
		Attendance:  handler.NewAttendanceHandler(attendanceService),
		Summary:     handler.NewSummaryHandler(summaryService, exportService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		AuthService: authService,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
