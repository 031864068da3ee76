package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clubhub/internal/api"
	"clubhub/internal/api/handlers"
	"clubhub/internal/repository"
	"clubhub/internal/service"
	"clubhub/pkg/auth"
	"clubhub/pkg/config"
	"clubhub/pkg/logger"
	"clubhub/pkg/mailer"
	"clubhub/pkg/postgres"

	"go.uber.org/zap"
)

// @title ClubHub API
// @version 1.0
// @description University club management: clubs, events, announcements, notifications and club recommendations

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting ClubHub service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	deptRepo := repository.NewDepartmentRepository(db, appLogger)
	clubRepo := repository.NewClubRepository(db, appLogger)
	eventRepo := repository.NewEventRepository(db, appLogger)
	annRepo := repository.NewAnnouncementRepository(db, appLogger)
	notifRepo := repository.NewNotificationRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	generator, err := service.NewTextGenerator(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize text generator", zap.Error(err))
	}
	defer generator.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, deptRepo, jwtManager, appLogger)
	deptService := service.NewDepartmentService(deptRepo, appLogger)
	clubService := service.NewClubService(clubRepo, deptRepo, appLogger)
	notifService := service.NewNotificationService(notifRepo, clubRepo, mailer.New(&cfg.SMTP, appLogger), appLogger)
	eventService := service.NewEventService(eventRepo, clubService, notifService, appLogger)
	annService := service.NewAnnouncementService(annRepo, clubService, notifService, appLogger)
	recService := service.NewRecommendationService(userRepo, clubRepo, generator, appLogger,
		service.WithGenerationTimeout(cfg.LLM.Timeout),
	)

	// Setup router
	app := api.SetupRouter(&api.Handlers{
		Auth:           handlers.NewAuthHandler(authService, appLogger),
		Department:     handlers.NewDepartmentHandler(deptService, appLogger),
		Club:           handlers.NewClubHandler(clubService, appLogger),
		Event:          handlers.NewEventHandler(eventService, annService, appLogger),
		Notification:   handlers.NewNotificationHandler(notifService, appLogger),
		Recommendation: handlers.NewRecommendationHandler(recService, appLogger),
	}, jwtManager, &cfg.Server, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
