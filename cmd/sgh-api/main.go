package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/martinstiben/SGH-portal/api/swagger"
	"github.com/martinstiben/SGH-portal/internal/generator"
	"github.com/martinstiben/SGH-portal/internal/handler"
	"github.com/martinstiben/SGH-portal/internal/middleware"
	"github.com/martinstiben/SGH-portal/internal/repository"
	"github.com/martinstiben/SGH-portal/internal/service"
	"github.com/martinstiben/SGH-portal/pkg/cache"
	"github.com/martinstiben/SGH-portal/pkg/config"
	"github.com/martinstiben/SGH-portal/pkg/database"
	"github.com/martinstiben/SGH-portal/pkg/jobs"
	"github.com/martinstiben/SGH-portal/pkg/logger"
	"github.com/martinstiben/SGH-portal/pkg/middleware/cors"
	"github.com/martinstiben/SGH-portal/pkg/middleware/requestid"
)

// @title SGH Portal API
// @version 1.0.0
// @description Academic scheduling service: courses, teachers, availability and weekly class blocks.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, timetable cache disabled", zap.Error(err))
		redisClient = nil
	}

	// Repositories.
	scheduleRepo := repository.NewScheduleRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	generationRepo := repository.NewGenerationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, log)

	// Services.
	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Cache.TTL, log, cfg.Cache.Enabled && redisClient != nil)

	scheduleService := service.NewScheduleService(scheduleRepo, availabilityRepo, cacheService, metricsService, nil, log)
	gridService := service.NewGridService(scheduleRepo, courseRepo, teacherRepo, subjectRepo, cacheService, log)
	exportService := service.NewExportService(gridService, nil, nil, log)
	availabilityService := service.NewAvailabilityService(availabilityRepo, nil, log)
	courseService := service.NewCourseService(courseRepo, nil, log)
	subjectService := service.NewSubjectService(subjectRepo, nil, log)
	teacherService := service.NewTeacherService(teacherRepo, subjectRepo, nil, log)

	authService := service.NewAuthService(userRepo, tokenRepo, nil, log, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	var generationService *service.GenerationService
	var generationQueue *jobs.Queue
	if cfg.Generator.Enabled && cfg.Generator.URL != "" {
		engine := generator.NewEngineClient(cfg.Generator.URL, cfg.Generator.Timeout, log)
		generationService = service.NewGenerationService(generationRepo, engine, nil, metricsService, log)
		generationQueue = jobs.NewQueue("generation", generationService.HandleJob, jobs.QueueConfig{
			Workers:    cfg.Generator.Workers,
			MaxRetries: cfg.Generator.MaxRetries,
			RetryDelay: cfg.Generator.RetryDelay,
			Logger:     log,
		})
		generationService.AttachQueue(generationQueue)
		generationQueue.Start(context.Background())
	} else {
		generationService = service.NewGenerationService(generationRepo, nil, nil, metricsService, log)
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, gridService)
	exportHandler := handler.NewExportHandler(exportService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	courseHandler := handler.NewCourseHandler(courseService)
	subjectHandler := handler.NewSubjectHandler(subjectService)
	teacherHandler := handler.NewTeacherHandler(teacherService)
	generationHandler := handler.NewGenerationHandler(generationService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(cors.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	authenticated := api.Group("", middleware.JWT(authService))
	managers := authenticated.Group("", middleware.RequireScheduleManager())

	courses := authenticated.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
	}
	managers.POST("/courses", courseHandler.Create)
	managers.PUT("/courses/:id", courseHandler.Update)
	managers.DELETE("/courses/:id", courseHandler.Delete)

	subjects := authenticated.Group("/subjects")
	{
		subjects.GET("", subjectHandler.List)
		subjects.GET("/:id", subjectHandler.Get)
	}
	managers.POST("/subjects", subjectHandler.Create)
	managers.PUT("/subjects/:id", subjectHandler.Update)
	managers.DELETE("/subjects/:id", subjectHandler.Delete)

	teachers := authenticated.Group("/teachers")
	{
		teachers.GET("", teacherHandler.List)
		teachers.GET("/:id", teacherHandler.Get)
	}
	managers.POST("/teachers", teacherHandler.Create)
	managers.PUT("/teachers/:id", teacherHandler.Update)
	managers.DELETE("/teachers/:id", teacherHandler.Delete)

	availability := authenticated.Group("/availability")
	{
		availability.GET("/by-teacher/:id", availabilityHandler.ListByTeacher)
	}
	managers.POST("/availability/register", availabilityHandler.Register)
	managers.PUT("/availability/update", availabilityHandler.Update)
	managers.DELETE("/availability/delete/:teacherId/:day", availabilityHandler.Delete)

	schedules := authenticated.Group("/schedules")
	{
		schedules.GET("", scheduleHandler.List)
		schedules.GET("/by-course/:id", scheduleHandler.ListByCourse)
		schedules.GET("/by-teacher/:id", scheduleHandler.ListByTeacher)
		schedules.GET("/grid/course/:id", scheduleHandler.CourseGrid)
		schedules.GET("/grid/teacher/:id", scheduleHandler.TeacherGrid)
		schedules.GET("/history", generationHandler.History)
		schedules.GET("/pdf/course/:id", exportHandler.CoursePDF)
		schedules.GET("/pdf/teacher/:id", exportHandler.TeacherPDF)
		schedules.GET("/csv/course/:id", exportHandler.CourseCSV)
		schedules.GET("/csv/teacher/:id", exportHandler.TeacherCSV)
	}
	managers.POST("/schedules", scheduleHandler.Create)
	managers.PUT("/schedules/:id", scheduleHandler.Update)
	managers.DELETE("/schedules/:id", scheduleHandler.Delete)
	managers.POST("/schedules/generate", generationHandler.Trigger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("env", cfg.Env),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	if generationQueue != nil {
		generationQueue.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
