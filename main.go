package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"stayhub/config"
	"stayhub/internal/handler"
	"stayhub/internal/mailer"
	"stayhub/internal/middleware"
	"stayhub/internal/notification"
	"stayhub/internal/repository"
	"stayhub/internal/service"
	"stayhub/pkg/chapa"
	"stayhub/pkg/database"
	"stayhub/pkg/logger"
	"stayhub/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// RabbitMQ: publisher enqueues confirmations, consumer feeds the
	// mail worker pool.
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to RabbitMQ consumer", zap.Error(err))
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		zlog.Fatal("failed to start consuming", zap.Error(err))
	}

	smtpMailer, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		zlog.Fatal("failed to configure mailer", zap.Error(err))
	}

	worker := notification.NewWorker(smtpMailer, zlog, cfg.NotificationWorkers, cfg.NotificationAttempts)
	worker.Start(context.Background(), msgs)

	dispatcher := notification.NewQueueDispatcher(publisher)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services
	userSvc := service.NewUserService(userRepo)
	listingSvc := service.NewListingService(listingRepo, userRepo)
	bookingSvc := service.NewBookingService(bookingRepo, listingRepo, userRepo, dispatcher, zlog)
	reviewSvc := service.NewReviewService(reviewRepo, listingRepo)
	chapaClient := chapa.NewClient(cfg.ChapaBaseURL, cfg.ChapaSecretKey)
	paymentSvc := service.NewPaymentService(paymentRepo, bookingRepo, userRepo, chapaClient, dispatcher, zlog)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			zlog.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "stayhub"})
	})

	handler.NewUserHandler(userSvc).RegisterRoutes(e)
	handler.NewListingHandler(listingSvc).RegisterRoutes(e)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e)
	handler.NewReviewHandler(reviewSvc).RegisterRoutes(e)
	handler.NewPaymentHandler(paymentSvc).RegisterRoutes(e)

	zlog.Info("stayhub starting", zap.String("port", cfg.ServerPort))
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
