package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushub/timetable-api/api/swagger"
	"github.com/campushub/timetable-api/internal/handler"
	"github.com/campushub/timetable-api/internal/middleware"
	"github.com/campushub/timetable-api/internal/repository"
	"github.com/campushub/timetable-api/internal/service"
	"github.com/campushub/timetable-api/pkg/cache"
	"github.com/campushub/timetable-api/pkg/config"
	"github.com/campushub/timetable-api/pkg/database"
	"github.com/campushub/timetable-api/pkg/logger"
	corsmiddleware "github.com/campushub/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushub/timetable-api/pkg/middleware/requestid"
)

// @title Campus Timetable API
// @version 1.0.0
// @description Weekly course timetabling, metrics and disruption repair
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, published-view caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	datasetSvc := service.NewDatasetService(
		repository.NewRoomRepository(db),
		repository.NewFacultyRepository(db),
		repository.NewCourseRepository(db),
		repository.NewBatchRepository(db),
		repository.NewOfferingRepository(db),
		logr,
	)
	assignmentRepo := repository.NewAssignmentRepository(db)

	var cacheClient service.CacheClient
	if redisClient != nil {
		cacheClient = redisClient
	}
	timetableSvc := service.NewTimetableService(datasetSvc, assignmentRepo, cacheClient, metricsSvc, validate, logr, cfg.Scheduler)
	repairSvc := service.NewRepairService(datasetSvc, assignmentRepo, timetableSvc, metricsSvc, validate, logr, cfg.Repair)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	repairHandler := handler.NewRepairHandler(repairSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	api.GET("/timetables/published", timetableHandler.Published)
	api.GET("/courses/:code/substitutes", repairHandler.Substitutes)

	protected := api.Group("")
	protected.Use(middleware.JWT(cfg.JWT))
	protected.POST("/timetables/generate", timetableHandler.Generate)
	protected.POST("/timetables/:proposalId/publish", timetableHandler.Publish)
	protected.POST("/repairs/plan", repairHandler.Plan)
	protected.POST("/repairs/:planId/apply", repairHandler.Apply)
	protected.POST("/repairs/undo", repairHandler.Undo)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
