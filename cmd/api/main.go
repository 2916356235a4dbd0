package main

import (
	"context"
	"os"
	"strings"

	"wapprove/internal/database"
	"wapprove/internal/handler"
	"wapprove/internal/middleware"
	"wapprove/internal/notifier"
	"wapprove/internal/repository"
	"wapprove/internal/service"
	"wapprove/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           WApprove API
// @version         1.0
// @description     Purchase request approval workflow with WhatsApp notifications.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		logrus.Info("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "wapprove")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		logrus.Fatalf("Database connection failed: %v", err)
	}
	logrus.Info("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	approverRepo := repository.NewApproverRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	approvalLogRepo := repository.NewApprovalLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	sender := notifier.NewTwilioSender(notifier.TwilioConfigFromEnv())

	userService := service.NewUserService(userRepo, departmentRepo)
	departmentService := service.NewDepartmentService(departmentRepo)
	approverService := service.NewApproverService(approverRepo, userRepo, departmentRepo)
	notificationService := service.NewNotificationService(notificationRepo, requestRepo, approverRepo, sender)
	requestService := service.NewRequestService(
		txManager, requestRepo, userRepo, departmentRepo,
		approverRepo, approvalLogRepo, notificationService, wsHub,
	)
	webhookService := service.NewWebhookService(userRepo, requestRepo, requestService, notificationService, sender)
	reportService := service.NewReportService(requestService)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	approverHandler := handler.NewApproverHandler(approverService)
	requestHandler := handler.NewRequestHandler(requestService)
	notificationHandler := handler.NewNotificationHandler(notificationService, webhookService, sender)
	reportHandler := handler.NewReportHandler(reportService)

	// Retry failed WhatsApp sends every 15 minutes
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("*/15 * * * *", func() {
		if sent, err := notificationService.RetryUnsent(context.Background()); err != nil {
			logrus.WithError(err).Error("Notification retry job failed")
		} else if sent > 0 {
			logrus.WithField("resent", sent).Info("Resent failed notifications")
		}
	}); err != nil {
		logrus.Fatalf("Failed to schedule notification retry job: %v", err)
	}
	scheduler.Start()

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	departmentHandler.RegisterRoutes(router.Group(""))
	approverHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))
	notificationHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	logrus.Infof("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func allowedOrigins() []string {
	if raw := os.Getenv("CORS_ALLOW_ORIGINS"); raw != "" {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return []string{"http://localhost:5173", "http://127.0.0.1:5173"}
}
