package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classdesk/internal/config"
	"classdesk/internal/handler"
	"classdesk/internal/middleware"
	"classdesk/internal/repository"
	"classdesk/internal/service"
	"classdesk/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger zerolog.Logger
}

func Init(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	// TranslateError turns the postgres unique violation into
	// gorm.ErrDuplicatedKey, which the submission repository relies on to
	// arbitrate concurrent first submissions.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	logger.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("Connected to database")

	if cfg.DevMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	files, err := storage.NewMinioStore(
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
		cfg.MinioBucket, cfg.MinioUseSSL, logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init file store: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	materialRepo := repository.NewMaterialFileRepository(db)

	// Services
	resolver := service.NewAssignmentResolver(assignmentRepo, courseRepo)
	ledger := service.NewSubmissionLedger(taskRepo, submissionRepo, resolver, logger)
	guard := service.NewEditabilityGuard(ledger)
	lifecycle := service.NewLifecycleService(taskRepo, courseRepo, logger)
	attachments := service.NewAttachmentService(materialRepo)

	// Handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret)
	courseHandler := handler.NewCourseHandler(courseRepo, userRepo, lifecycle)
	taskHandler := handler.NewTaskHandler(taskRepo, courseRepo, assignmentRepo, guard, lifecycle, ledger, attachments, resolver, files)
	submissionHandler := handler.NewSubmissionHandler(taskRepo, submissionRepo, ledger, files)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Course routes
		authorized.POST("/courses", courseHandler.Create)
		authorized.GET("/courses", courseHandler.ListMine)
		authorized.GET("/courses/:id", courseHandler.GetByID)
		authorized.DELETE("/courses/:id", courseHandler.Delete)
		authorized.POST("/courses/:id/students", courseHandler.AddStudent)
		authorized.DELETE("/courses/:id/students/:student_id", courseHandler.RemoveStudent)
		authorized.POST("/courses/:id/teachers", courseHandler.AddTeacher)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/assign", taskHandler.Assign)
		authorized.DELETE("/tasks/:id/assign/:assignment_id", taskHandler.Unassign)
		authorized.GET("/tasks/:id/submission-status", taskHandler.SubmissionStatus)
		authorized.POST("/tasks/:id/materials", taskHandler.AddMaterial)
		authorized.DELETE("/tasks/:id/materials/:file_id", taskHandler.RemoveMaterial)

		// Submission routes
		authorized.POST("/tasks/:id/submissions", submissionHandler.Submit)
		authorized.GET("/tasks/:id/submissions", submissionHandler.ListByTask)
		authorized.GET("/tasks/:id/submissions/mine", submissionHandler.GetMine)
		authorized.PUT("/submissions/:id/grade", submissionHandler.Grade)
		authorized.POST("/submissions/:id/files", submissionHandler.AddFiles)
		authorized.DELETE("/submissions/:id", submissionHandler.Delete)
		authorized.DELETE("/submissions/:id/files/:file_id", submissionHandler.RemoveFile)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Logger: logger,
	}, nil
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Logger.Info().Str("port", s.Config.ServerPort).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal().Err(err).Msg("Failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	s.Logger.Info().Msg("Server exited properly")
}
