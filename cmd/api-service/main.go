package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/cuongbtq/skillbridge/internal/api/auth"
	"github.com/cuongbtq/skillbridge/internal/api/handler"
	"github.com/cuongbtq/skillbridge/internal/api/router"
	"github.com/cuongbtq/skillbridge/internal/api/storage"
	"github.com/cuongbtq/skillbridge/internal/api/upload"
	"github.com/cuongbtq/skillbridge/internal/config"
	"github.com/cuongbtq/skillbridge/migrations"
	"github.com/cuongbtq/skillbridge/shared/logger"
	"github.com/cuongbtq/skillbridge/shared/objectstore"
	"github.com/cuongbtq/skillbridge/shared/postgresql"
	"github.com/cuongbtq/skillbridge/shared/rabbitmq"
	"github.com/cuongbtq/skillbridge/shared/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	dbClient, err := initPostgreSQL(&cfg.Database, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	if cfg.Database.ApplySchema {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := dbClient.ApplySchema(ctx, migrations.Schema)
		cancel()
		if err != nil {
			return err
		}
	}

	var revoker auth.Revoker = auth.NopRevoker{}
	if cfg.Redis.Enabled {
		redisClient, err := initRedis(&cfg.Redis, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()
		revoker = auth.NewKVRevoker(redisClient)
	} else {
		appLogger.Warn("Redis disabled, logout will not revoke tokens server-side")
	}

	var publisher activity.Publisher = activity.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		defer rabbitClient.Close()
		publisher = activity.NewBrokerPublisher(rabbitClient, cfg.RabbitMQ.Publish.Timeout, appLogger.Logger)
	} else {
		appLogger.Warn("RabbitMQ disabled, activity events will not be published")
	}

	deps := &handler.Dependencies{
		Logger:    appLogger.Logger,
		Store:     storage.NewStorage(dbClient.GetDB()),
		Tokens:    auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Passwords: auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Revoker:   revoker,
		Publisher: publisher,
		Cookie: handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.App.IsProduction(),
		},
		HealthCheck: dbClient.HealthCheck,
	}

	if cfg.Storage.CloudName != "" {
		uploader, err := initUploader(&cfg.Storage, cfg.Server.MaxUploadBytes, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		deps.Uploader = uploader
	} else {
		appLogger.Warn("Object storage not configured, file uploads are disabled")
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := router.SetupRouter(deps, router.Options{
		ServiceName:        cfg.App.Name,
		AllowedOrigins:     cfg.Server.CORSAllowedOrigins,
		MaxMultipartMemory: cfg.Server.MaxUploadBytes,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting HTTP server",
			slog.String("address", addr),
			slog.Duration("read_timeout", cfg.Server.ReadTimeout),
			slog.Duration("write_timeout", cfg.Server.WriteTimeout),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		appLogger.Info("Shutting down server...", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableSource,
		TimeFormat:   cfg.TimeFormat,
	})
}

func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	return postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}, logger)
}

func initRedis(cfg *config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	return redis.NewClient(&redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, logger)
}

// initRabbitMQ connects a publisher; the API never declares the worker's queue
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	return rabbitmq.NewClient(&rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}, logger)
}

func initUploader(cfg *config.StorageConfig, maxSize int64, logger *slog.Logger) (*upload.Uploader, error) {
	store, err := objectstore.NewCloudinary(&objectstore.Config{
		CloudName: cfg.CloudName,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}, logger)
	if err != nil {
		return nil, err
	}

	return upload.NewUploader(store, upload.Folders{
		Profiles: cfg.ProfileFolder,
		Resumes:  cfg.ResumeFolder,
		Logos:    cfg.LogoFolder,
	}, maxSize), nil
}
