package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogHandlers "community-portal/internal/catalog/handlers"
	catalogRepo "community-portal/internal/catalog/repository"
	classifiedsHTTP "community-portal/internal/classifieds/controller/http"
	classifiedsModel "community-portal/internal/classifieds/model"
	classifiedsRepo "community-portal/internal/classifieds/repo/persistent"
	classifiedsUC "community-portal/internal/classifieds/usecase"
	identityHTTP "community-portal/internal/identity/controller/http"
	identityModel "community-portal/internal/identity/model"
	identityRepo "community-portal/internal/identity/repo/persistent"
	identityUC "community-portal/internal/identity/usecase"
	moderationHTTP "community-portal/internal/moderation/controller/http"
	moderationUC "community-portal/internal/moderation/usecase"
	"community-portal/pkg/cache"
	"community-portal/pkg/config"
	"community-portal/pkg/database"
	"community-portal/pkg/jwt"
	"community-portal/pkg/logger"
	"community-portal/pkg/middleware"
	"community-portal/pkg/models"
	"community-portal/pkg/queue"
	"community-portal/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// App owns every external connection. Each one is optional: a missing
// database, cache, media store or broker degrades the matching feature
// instead of preventing startup.
type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server

	stopListener context.CancelFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	var db *gorm.DB
	if cfg.HasDatabase() {
		var err error
		db, err = database.NewPostgresDB(cfg)
		if err != nil {
			log.Error("Failed to connect to database: %v (continuing read-only)", err)
			db = nil
		}
	} else {
		log.Warn("No database configured, running with demo auth and empty catalogs")
	}

	if db != nil {
		if err := db.AutoMigrate(
			&identityModel.UserModel{},
			&classifiedsModel.AdModel{},
			&classifiedsModel.AdImageModel{},
			&models.Category{},
			&models.Event{},
			&models.Business{},
			&models.Feedback{},
		); err != nil {
			log.Error("Migration failed: %v", err)
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (continuing without cache)", err)
		redisClient = nil
	}

	var s3Client *s3.Client
	if cfg.HasS3() {
		s3Client, err = s3.NewClient(cfg)
		if err != nil {
			log.Warn("Failed to create media client: %v (continuing without uploads)", err)
			s3Client = nil
		}
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without notifications)", err)
		queueClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwt.NewService(cfg.JWTSecret),
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	adRepo := classifiedsRepo.NewAdRepository(a.db)
	userRepo := identityRepo.NewUserRepository(a.db)
	catRepo := catalogRepo.NewCatalogRepository(a.db)

	classifieds := classifiedsUC.NewClassifiedsUseCase(adRepo, a.s3Client, a.redisClient, a.log)
	moderation := moderationUC.NewModerationUseCase(classifieds, a.redisClient, a.queueClient, a.log)

	// The credential backend is picked once here, never re-probed
	var creds identityUC.CredentialStore
	if a.db != nil {
		creds = identityUC.NewDBCredentialStore(userRepo)
	} else {
		a.log.Warn("Using demo credential store")
		creds = identityUC.NewDemoCredentialStore()
	}
	identity := identityUC.NewIdentityUseCase(creds, userRepo, a.jwtService, a.redisClient, a.s3Client, a.log)

	classifiedsHandler := classifiedsHTTP.NewClassifiedsHandler(classifieds, a.log)
	moderationHandler := moderationHTTP.NewModerationHandler(moderation, a.queueClient, a.log)
	identityHandler := identityHTTP.NewIdentityHandler(identity, a.log)
	catalogHandler := catalogHandlers.NewCatalogHandler(catRepo, a.redisClient, a.log)

	listenerCtx, cancel := context.WithCancel(context.Background())
	a.stopListener = cancel
	moderation.StartChangeListener(listenerCtx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "database": a.db != nil})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", identityHandler.Login)
		api.POST("/auth/register", identityHandler.Register)
		api.GET("/auth/me", identityHandler.Me)

		api.GET("/classifieds", classifiedsHandler.ListClassifieds)
		api.GET("/classifieds/:id", classifiedsHandler.GetClassified)
		api.GET("/categories", catalogHandler.ListCategories)
		api.GET("/events", catalogHandler.ListEvents)
		api.GET("/businesses", catalogHandler.ListBusinesses)
		api.POST("/feedback",
			middleware.RateLimitMiddleware(a.redisClient, 10, time.Minute),
			catalogHandler.SubmitFeedback)

		// Guests may post classifieds; a signed-in caller gets credited
		// as the author
		api.POST("/classifieds",
			middleware.OptionalAuthMiddleware(a.jwtService),
			middleware.RateLimitMiddleware(a.redisClient, 5, time.Minute),
			classifiedsHandler.CreateClassified)
		api.PUT("/classifieds/:id",
			middleware.OptionalAuthMiddleware(a.jwtService),
			classifiedsHandler.UpdateClassified)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.POST("/auth/logout", identityHandler.Logout)
			protected.POST("/auth/avatar", identityHandler.UploadAvatar)
		}

		console := api.Group("/console")
		console.Use(middleware.AuthMiddleware(a.jwtService), middleware.RequireCapability(models.PermApproveContent, models.PermManageRoles))
		{
			console.GET("/classifieds", classifiedsHandler.ListAllClassifieds)
			console.GET("/moderation/pending", moderationHandler.PendingQueue)
			console.GET("/moderation/counts", moderationHandler.Counts)
			console.GET("/moderation/stats", moderationHandler.Stats)
			console.POST("/moderation/approve/:id", moderationHandler.Approve)
			console.POST("/moderation/reject/:id", moderationHandler.Reject)
			console.POST("/moderation/bulk-approve", moderationHandler.BulkApprove)
			console.POST("/moderation/clear-overrides", moderationHandler.ClearOverrides)

			console.DELETE("/classifieds/:id",
				middleware.RequireCapability(models.PermRemoveContent),
				classifiedsHandler.DeleteClassified)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(a.jwtService), middleware.RequireCapability(models.PermManageRoles))
		{
			admin.GET("/users", identityHandler.ListUsers)
			admin.PUT("/users/:id/role", identityHandler.UpdateUserRole)
			admin.PUT("/users/:id/active", identityHandler.SetUserActive)
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Community portal starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.stopListener != nil {
		a.stopListener()
	}

	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.Error("Error closing database: %v", err)
			}
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Community portal exited")
	return nil
}
