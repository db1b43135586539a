package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agriverse_backend/internal/config"
	"agriverse_backend/internal/controller"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/service"
	"agriverse_backend/pkg/database"
	"agriverse_backend/pkg/logger"
	"agriverse_backend/pkg/monitoring"
	"agriverse_backend/pkg/security"
	"agriverse_backend/pkg/tracing"

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
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	module   *repository.ModuleRepository
	progress *repository.ProgressRepository
	farmer   *repository.FarmerRepository
	course   *repository.CourseRepository
	purchase *repository.PurchaseRepository
}

type services struct {
	auth     *service.AuthService
	storage  *service.StorageService
	learning *service.LearningService
	farmer   *service.FarmerService
	course   *service.CourseService
	purchase *service.PurchaseService
	mentor   *service.MentorService
}

type controllers struct {
	auth     *controller.AuthController
	learning *controller.LearningController
	farmer   *controller.FarmerController
	course   *controller.CourseController
	purchase *controller.PurchaseController
	mentor   *controller.MentorController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig fans a reloaded config out to registered callbacks.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		module:   repository.NewModuleRepository(db),
		progress: repository.NewProgressRepository(db),
		farmer:   repository.NewFarmerRepository(db),
		course:   repository.NewCourseRepository(db),
		purchase: repository.NewPurchaseRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.learning = service.NewLearningService(repos.module, repos.progress, repos.farmer, rdb, db)
	s.farmer = service.NewFarmerService(repos.farmer, repos.user, db)
	s.course = service.NewCourseService(repos.course, db)
	s.purchase = service.NewPurchaseService(repos.purchase, repos.course, repos.user, db)
	s.mentor = service.NewMentorService(repos.user)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		learning: controller.NewLearningController(s.learning, s.storage, a.Config),
		farmer:   controller.NewFarmerController(s.farmer),
		course:   controller.NewCourseController(s.course, s.storage, a.Config),
		purchase: controller.NewPurchaseController(s.purchase),
		mentor:   controller.NewMentorController(s.mentor, s.purchase),
		health:   controller.NewHealthController(db, rdb),
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The catalog cache is an optimization; the server runs without it.
		logger.Log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("agriverse-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
