package config

import (
	"MeatFresh-Backend/internal/api/handlers"
	"MeatFresh-Backend/internal/api/routes"
	"MeatFresh-Backend/internal/middleware"
	"MeatFresh-Backend/internal/utils"
	"MeatFresh-Backend/internal/utils/storage"
	"MeatFresh-Backend/pkg/chat"
	"MeatFresh-Backend/pkg/gemini"
	"MeatFresh-Backend/pkg/jwt"
	"MeatFresh-Backend/pkg/midtrans"
	"MeatFresh-Backend/pkg/scan"
	"MeatFresh-Backend/pkg/user"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewApp(ctx context.Context, db *gorm.DB, log *zap.Logger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		BodyLimit: storage.MaxUploadSize + 1<<20,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	analyzer, err := gemini.NewGeminiClient(ctx, log.Named("gemini"))
	if err != nil {
		return nil, err
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	scanRepository := scan.NewScanRepository(db)
	midtransRepository := midtrans.NewMidtransRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, log.Named("user"))
	scanService := scan.NewScanService(scanRepository, s3, analyzer, userService, log.Named("scan"))
	midtransService := midtrans.NewMidtransService(
		midtransRepository,
		userRepository,
		midtrans.NewGateway(),
		log.Named("midtrans"),
	)
	chatService := chat.NewChatService(analyzer, log.Named("chat"))

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	scanHandler := handlers.NewScanHandler(scanService, validator)
	freshnessHandler := handlers.NewFreshnessHandler()
	midtransHandler := handlers.NewMidtransHandler(midtransService, validator)
	chatHandler := handlers.NewChatHandler(chatService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		ScanHandler:      scanHandler,
		FreshnessHandler: freshnessHandler,
		MidtransHandler:  midtransHandler,
		ChatHandler:      chatHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
