package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ensemble_backend/internal/config"
	"ensemble_backend/internal/email"
	"ensemble_backend/internal/handlers"
	"ensemble_backend/internal/logger"
	"ensemble_backend/internal/middleware"
	"ensemble_backend/internal/models"
	"ensemble_backend/internal/ratelimit"
	"ensemble_backend/internal/repositories"
	"ensemble_backend/internal/routes"
	"ensemble_backend/internal/services"
	"ensemble_backend/internal/tenant"
	"ensemble_backend/internal/validator"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.Musician{},
		&models.Project{},
		&models.RankingList{},
		&models.RankingEntry{},
		&models.Need{},
		&models.Request{},
		&models.Notification{},
	); err != nil {
		logger.Fatal("Auto-migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(cfg, serviceContainer, gormDB)

	resolver := tenant.NewStaticResolver(gormDB)
	ginRouter := initializeGinRouter(resolver)

	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	var sender email.Sender
	smtpSender, err := email.NewSMTPSender(email.Config{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Warn("SMTP not configured, outbound email will only be logged", "error", err)
		sender = &email.LogSender{}
	} else {
		sender = smtpSender
	}

	needRepo := repositories.NewNeedRepository(gormDB)
	requestRepo := repositories.NewRequestRepository(gormDB)
	rankingRepo := repositories.NewRankingRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	dispatcher := services.NewNotifyDispatcher(cfg.Dispatch)
	rankingService := services.NewRankingService(rankingRepo, cfg.Dispatch)
	needService := services.NewNeedService(needRepo, requestRepo, notificationRepo, rankingService, dispatcher, sender)
	requestService := services.NewRequestService(requestRepo, needRepo, notificationRepo, needService, dispatcher, sender)
	timeoutService := services.NewTimeoutService(requestRepo, notificationRepo, requestService, needService, cfg.Dispatch)
	conflictService := services.NewConflictService(needRepo, rankingRepo)

	return &services.ServiceContainer{
		NeedService:     needService,
		RequestService:  requestService,
		TimeoutService:  timeoutService,
		ConflictService: conflictService,
		RankingService:  rankingService,
		Dispatcher:      dispatcher,
	}
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer, gormDB *gorm.DB) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	rateStore := ratelimit.NewMemoryStore()
	rateWindow := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	return &handlers.AppHandlers{
		NeedHandler:        handlers.NewNeedHandler(baseHandler, container.NeedService, container.ConflictService),
		RequestHandler:     handlers.NewRequestHandler(baseHandler, container.RequestService, rateStore, cfg.RateLimit.RespondLimit, rateWindow),
		ListHandler:        handlers.NewListHandler(baseHandler, container.RankingService),
		MusicianHandler:    handlers.NewMusicianHandler(baseHandler, gormDB),
		MaintenanceHandler: handlers.NewMaintenanceHandler(baseHandler, container.TimeoutService),
	}
}

func initializeGinRouter(resolver tenant.Resolver) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.TenantMiddleware(resolver))
	return router
}
