package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"study_backend/internal/config"
	"study_backend/internal/controller"
	"study_backend/internal/repository"
	"study_backend/internal/service"
	"study_backend/internal/taskqueue"
	"study_backend/pkg/configwatcher"
	"study_backend/pkg/database"
	"study_backend/pkg/logger"
	"study_backend/pkg/monitoring"
	"study_backend/pkg/security"
	"study_backend/pkg/tracing"
	"syscall"
	"time"

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
	Queue           *taskqueue.Queue
	services        *services
	workerCancel    context.CancelFunc
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	course   *repository.CourseRepository
	progress *repository.ProgressRepository
	chat     *repository.ChatRepository
	streak   *repository.StreakRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	ai          *service.AIService
	courseGen   *service.CourseGenService
	chatbot     *service.ChatbotService
	course      *service.CourseService
	progress    *service.ProgressService
	streak      *service.StreakService
	leaderboard *service.LeaderboardService
	certificate *service.CertificateService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	chat        *controller.ChatController
	course      *controller.CourseController
	learning    *controller.LearningController
	leaderboard *controller.LeaderboardController
	task        *controller.TaskController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		course:   repository.NewCourseRepository(db),
		progress: repository.NewProgressRepository(db),
		chat:     repository.NewChatRepository(db),
		streak:   repository.NewStreakRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.ai = service.NewAIService(cfg.AI)
	s.courseGen = service.NewCourseGenService(s.ai, repos.course, repos.user)
	s.chatbot = service.NewChatbotService(s.ai, repos.chat, repos.user, repos.course)
	s.progress = service.NewProgressService(repos.progress, repos.course)
	s.course = service.NewCourseService(repos.course, repos.progress, s.progress)
	s.streak = service.NewStreakService(repos.streak)
	s.leaderboard = service.NewLeaderboardService(repos.progress, rdb)
	s.certificate = service.NewCertificateService(s.storage, &cfg.Storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user, s.streak),
		user:        controller.NewUserController(s.user, s.streak),
		chat:        controller.NewChatController(s.chatbot, a.Queue),
		course:      controller.NewCourseController(s.course, s.progress, s.certificate, s.auth, a.Queue),
		learning:    controller.NewLearningController(s.course, s.progress, s.chatbot),
		leaderboard: controller.NewLeaderboardController(s.leaderboard, s.progress, s.streak),
		task:        controller.NewTaskController(a.Queue),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
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

// startWorkers registers the background task handlers and starts the
// heavy and default queue workers. The returned cancel stops them.
func (a *App) startWorkers(s *services) {
	service.RegisterCourseGenerateTask(a.Queue, s.courseGen)
	service.RegisterChatReplyTask(a.Queue, s.chatbot)

	if !a.Config.Worker.Enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel

	heavy := taskqueue.NewHeavyWorker(a.Queue, a.DB, a.Config.Worker.HeavyConcurrency)
	def := taskqueue.NewDefaultWorker(a.Queue, a.DB, a.Config.Worker.DefaultConcurrency)
	go heavy.Start(ctx)
	go def.Start(ctx)

	logger.Log.Info("Task workers started",
		zap.Int("heavyConcurrency", a.Config.Worker.HeavyConcurrency),
		zap.Int("defaultConcurrency", a.Config.Worker.DefaultConcurrency))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		log.Fatalf("Failed to migrate database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Queue:  taskqueue.NewQueue(rdb),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
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
		tp, err := tracing.InitTracer("study-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		// Shut down in Run so spans keep flowing while the server lives.
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("Configuration reloaded")
		for _, callback := range app.configCallbacks {
			callback(reloaded)
		}
	})

	app.startWorkers(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.workerCancel != nil {
		a.workerCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
