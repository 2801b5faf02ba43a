package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-info-api/config"
	deliveryHttp "health-info-api/internal/delivery/http"
	"health-info-api/internal/delivery/http/handler"
	"health-info-api/internal/delivery/http/middleware"
	"health-info-api/internal/infrastructure/cache"
	"health-info-api/internal/infrastructure/database"
	"health-info-api/internal/infrastructure/mail"
	"health-info-api/internal/infrastructure/queue"
	"health-info-api/internal/repository"
	"health-info-api/internal/service"
	"health-info-api/internal/usecase"
	"health-info-api/pkg/jwt"
	"health-info-api/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	AMQPConn    *amqp.Connection
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(configPath string) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, gormLogLevel(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize mail delivery
	sender, err := app.newMailSender(cfg, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize all layers
	server, err := initializeServer(cfg, log, db, redisClient, sender)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	return logrus.StandardLogger()
}

func gormLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.IsDevelopment() {
		return logger.Info
	}
	return logger.Warn
}

// newMailSender picks the delivery backend named by MAIL_DRIVER.
func (app *App) newMailSender(cfg *config.Config, log *logrus.Logger) (mail.Sender, error) {
	switch cfg.Mail.Driver {
	case config.MailDriverSMTP:
		return mail.NewSMTPSender(cfg.Mail, log), nil
	case config.MailDriverAMQP:
		conn, err := queue.Connect(cfg.AMQP.URL, 5, 2*time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		app.AMQPConn = conn

		ch, err := queue.SetupChannel(conn, []queue.QueueConfig{
			{QueueName: cfg.AMQP.Queue, RoutingKey: queue.EmailRoutingKey},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set up RabbitMQ channel: %w", err)
		}
		log.Infof("Mail jobs are published to queue %s", cfg.AMQP.Queue)
		return queue.NewMailPublisher(ch), nil
	default:
		log.Warn("MAIL_DRIVER is log, emails are written to the log only")
		return mail.NewLogSender(log), nil
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, sender mail.Sender) (*http.Server, error) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	clientProfileRepo := repository.NewClientProfileRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	programRepo := repository.NewHealthProgramRepository()
	enrollmentRepo := repository.NewEnrollmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	sessionService := service.NewSessionService(redisClient, log)
	programCache := service.NewProgramCache(redisClient, cfg.Redis.ProgramCacheTTL, log)
	mailService := service.NewMailService(sender, service.MailOptions{
		FrontendURL:     cfg.App.FrontendURL,
		VerificationTTL: cfg.Auth.VerificationTokenTTL,
		ResetTTL:        cfg.Auth.ResetTokenTTL,
	}, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, cfg.Auth, userRepo, clientProfileRepo, auditService, sessionService, mailService, jwtService)
	userUsecase := usecase.NewUserUsecase(db, log, cfg.Auth.BcryptCost, userRepo, clientProfileRepo, doctorProfileRepo, auditService, sessionService)
	programUsecase := usecase.NewProgramUsecase(db, log, programRepo, auditService, programCache)
	enrollmentUsecase := usecase.NewEnrollmentUsecase(db, log, enrollmentRepo, userRepo, programRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	if err := authUsecase.EnsureAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	userHandler := handler.NewUserHandler(userUsecase, customValidator)
	programHandler := handler.NewProgramHandler(programUsecase, customValidator)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionService, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.FrontendURL)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	metricsMiddleware := middleware.NewMetricsMiddleware(registry)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.Auth.RateLimit, cfg.Auth.RateBurst, log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		userHandler,
		programHandler,
		enrollmentHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		metricsMiddleware,
		rateLimitMiddleware,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	httpRouter := router.Handler()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, rabbitmq)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.AMQPConn != nil {
		app.AMQPConn.Close()
	}
}
