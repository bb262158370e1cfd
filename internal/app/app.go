package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"study_quiz_backend/internal/config"
	"study_quiz_backend/internal/controller"
	"study_quiz_backend/internal/repository"
	"study_quiz_backend/internal/service"
	"study_quiz_backend/pkg/database"
	"study_quiz_backend/pkg/logger"
	"study_quiz_backend/pkg/monitoring"
	"study_quiz_backend/pkg/security"
	"study_quiz_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerProvider  *sdktrace.TracerProvider
	leaderboardSize atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
}

type repositories struct {
	attempt  *repository.AttemptRepository
	stats    *repository.StatsRepository
	course   *repository.CourseRepository
	progress *repository.StudyProgressRepository
}

type services struct {
	ai        *service.AIService
	course    *service.CourseService
	questions *service.QuestionSource
	sessions  *service.SessionManager
	stats     *service.StatsService
	quiz      *service.QuizService
	doubt     *service.DoubtService
	storage   *service.StorageService
}

type controllers struct {
	course *controller.CourseController
	quiz   *controller.QuizController
	stats  *controller.StatsController
	doubt  *controller.DoubtController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 由配置监听器调用
func (a *App) ReloadConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		attempt:  repository.NewAttemptRepository(db),
		stats:    repository.NewStatsRepository(db),
		course:   repository.NewCourseRepository(db),
		progress: repository.NewStudyProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.storage = service.NewStorageService(&cfg.Storage)
	s.course = service.NewCourseService(repos.course, repos.progress)

	// redis 未启用时不缓存题目，排行榜直接查库
	var (
		cache       service.QuestionCache
		leaderboard service.Leaderboard
	)
	if rdb != nil {
		cache = service.NewRedisQuestionCache(rdb, cfg.Quiz.QuestionCacheTTL)
		leaderboard = service.NewRedisLeaderboard(rdb)
	}

	s.questions = service.NewQuestionSource(s.ai, cache)
	s.sessions = service.NewSessionManager(cfg.Quiz.TickInterval())
	s.stats = service.NewStatsService(repos.stats, repos.attempt, leaderboard)
	s.quiz = service.NewQuizService(s.course, repos.attempt, s.stats, s.questions, s.sessions)
	s.doubt = service.NewDoubtService(s.course, s.ai)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		course: controller.NewCourseController(s.course),
		quiz:   controller.NewQuizController(s.quiz, s.storage),
		stats: controller.NewStatsController(s.stats, func() int {
			return int(a.leaderboardSize.Load())
		}),
		doubt:  controller.NewDoubtController(s.doubt),
		health: controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.ApplyMode(cfg.Server.Mode)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.ai.UpdateConfig(cfg.AI)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.sessions.SetTickInterval(cfg.Quiz.TickInterval())
		if cfg.Quiz.LeaderboardSize > 0 {
			a.leaderboardSize.Store(int64(cfg.Quiz.LeaderboardSize))
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			// 题目缓存和排行榜可以降级，不阻止启动
			logger.Log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
			rdb = nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}
	app.leaderboardSize.Store(int64(cfg.Quiz.LeaderboardSize))

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)
	app.registerConfigCallbacks(services)

	if rdb != nil {
		go app.warmLeaderboard()
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Server.Mode, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracerProvider = tp
		}
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// 排行榜预热条数，覆盖 leaderboard_size 的上限
const leaderboardWarmSize = 1000

func (a *App) warmLeaderboard() {
	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()
	n, err := a.services.stats.WarmLeaderboard(ctx, leaderboardWarmSize)
	if err != nil {
		logger.Log.Warn("Failed to warm leaderboard", zap.Int("synced", n), zap.Error(err))
		return
	}
	logger.Log.Info("Leaderboard warmed", zap.Int("users", n))
}

// Context 应用生命周期，Run 退出时取消
func (a *App) Context() context.Context {
	return a.ctx
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 停止计时器和后台协程，释放连接
func (a *App) Close(ctx context.Context) {
	a.cancel()

	if a.services != nil {
		a.services.quiz.Shutdown()
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
