package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harish3000/Learn-Labs-sub000/internal/config"
	"github.com/Harish3000/Learn-Labs-sub000/internal/controller"
	"github.com/Harish3000/Learn-Labs-sub000/internal/repository"
	"github.com/Harish3000/Learn-Labs-sub000/internal/service"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/database"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/logger"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/monitoring"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/security"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  interface{ Shutdown(context.Context) error }
	configCallbacks []func(*config.Config)
}

type repositories struct {
	attempt  *repository.AttemptRepository
	question *repository.QuestionRepository
	lecture  *repository.LectureRepository
}

type services struct {
	storage    *service.StorageService
	assessment *service.AssessmentService
	dashboard  *service.DashboardService
	lecture    *service.LectureService
	hub        *service.PlaybackHub
}

type controllers struct {
	assessment *controller.AssessmentController
	dashboard  *controller.DashboardController
	lecture    *controller.LectureController
	health     *controller.HealthController
}

// RegisterConfigCallback registers a hook run on every hot config reload.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig applies a hot-reloaded config to the running app.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		attempt:  repository.NewAttemptRepository(db),
		question: repository.NewQuestionRepository(db),
		lecture:  repository.NewLectureRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.assessment = service.NewAssessmentService(repos.attempt, repos.question, rdb, cfg)
	s.dashboard = service.NewDashboardService(repos.attempt, repos.question, repos.lecture)
	s.lecture = service.NewLectureService(repos.lecture, repos.question, storage)
	s.hub = service.NewPlaybackHub(s.assessment, repos.lecture, cfg)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		assessment: controller.NewAssessmentController(s.assessment, s.hub),
		dashboard:  controller.NewDashboardController(s.dashboard),
		lecture:    controller.NewLectureController(s.lecture),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)

	logger.Log.Info("logger initialized")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		return nil, err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The cache is an optimization in front of the attempt log, not a
		// dependency; run without it.
		logger.Log.Warn("redis unavailable, last-attempt cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learn-labs-assessment", cfg.Server.Mode, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	// Close playback sessions first so their pending batches reach the
	// attempt log before the HTTP server stops accepting work.
	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("tracer shutdown failed", zap.Error(err))
		}
	}

	logger.Log.Sync()
	logger.Log.Info("server exiting")
}
