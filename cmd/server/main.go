package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alam0164088/chef-star/internal/config"
	"github.com/alam0164088/chef-star/internal/infrastructure/mailer"
	"github.com/alam0164088/chef-star/internal/infrastructure/models"
	"github.com/alam0164088/chef-star/internal/infrastructure/repositories"
	"github.com/alam0164088/chef-star/internal/interfaces/http/handlers"
	"github.com/alam0164088/chef-star/internal/interfaces/http/middleware"
	"github.com/alam0164088/chef-star/internal/usecases"
	"github.com/alam0164088/chef-star/pkg/jwt"
	"github.com/alam0164088/chef-star/pkg/logger"
	"github.com/alam0164088/chef-star/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			// Duplicate-key violations from the unique indexes must map
			// to gorm.ErrDuplicatedKey for the repository layer.
			TranslateError: true,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	userRepo := repositories.NewUserRepository(db)
	tokenStore := redis.NewTokenStore()

	var m mailer.Mailer
	if cfg.SMTP.Host != "" {
		m = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		logger.Warn(context.Background(), "SMTP host not configured, emails go to the log")
		m = mailer.NewLogMailer()
	}

	credIssuer := usecases.NewCredentialIssuer(tokenStore, jwtService)
	verificationUsecase := usecases.NewVerificationUsecase(userRepo, m, credIssuer, cfg.SMTP.From)
	accountUsecase := usecases.NewAccountUsecase(userRepo, verificationUsecase, credIssuer)
	consentUsecase := usecases.NewConsentUsecase(userRepo, m, cfg.SMTP.From)

	authHandler := handlers.NewAuthHandler(accountUsecase, verificationUsecase)
	consentHandler := handlers.NewConsentHandler(consentUsecase, cfg.Server.BaseURL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	registerRoutes(r, routeDeps{
		authHandler:    authHandler,
		consentHandler: consentHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService, tokenStore),
	})

	logger.Info(context.Background(), "Server starting", zap.String("port", cfg.Server.Port))
	return runServer(r, cfg.Server.Port)
}
