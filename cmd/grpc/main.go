package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/koperasihub/product-form-service/config"
	"github.com/koperasihub/product-form-service/internal/hubapi"
	"github.com/koperasihub/product-form-service/internal/product"
	"github.com/koperasihub/product-form-service/internal/upload"
	"github.com/koperasihub/product-form-service/pkg/broker"
	"github.com/koperasihub/product-form-service/pkg/cache"
	"github.com/koperasihub/product-form-service/pkg/database/postgres"
	"github.com/koperasihub/product-form-service/pkg/i18n"
	"github.com/koperasihub/product-form-service/pkg/logger"
	"github.com/koperasihub/product-form-service/pkg/middleware"

	catH "github.com/koperasihub/product-form-service/internal/category/handler"
	catUCPkg "github.com/koperasihub/product-form-service/internal/category/usecase"

	invH "github.com/koperasihub/product-form-service/internal/inventory/handler"
	invUCPkg "github.com/koperasihub/product-form-service/internal/inventory/usecase"

	prodH "github.com/koperasihub/product-form-service/internal/product/handler"
	prodRepoPkg "github.com/koperasihub/product-form-service/internal/product/repository"
	prodUCPkg "github.com/koperasihub/product-form-service/internal/product/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Messages
	translator, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		appLogger.Fatal("Could not load translations", zap.Error(err))
	}

	// 4. Submission journal (optional)
	var journal product.JournalRepository
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Warn("Could not connect to PostgreSQL, submission journal disabled", zap.Error(err))
	} else {
		defer db.Close()
		journal = prodRepoPkg.NewPGRepository(db)
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
	}

	// 5. Redis: drafts, locks and the category cache
	var (
		drafts     product.DraftRepository
		locker     cache.Locker
		cacheStore cache.Store
	)
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis, drafts are kept in memory and submits are not locked", zap.Error(err))
		drafts = prodRepoPkg.NewMemoryDraftRepository()
	} else {
		defer redisClient.Close()
		drafts = prodRepoPkg.NewRedisDraftRepository(redisClient.Client)
		locker = redisClient
		cacheStore = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 6. Kafka producer for submission events
	var publisher prodUCPkg.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		publisher = producer
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 7. Hub API and upload backend
	hub := hubapi.NewClient(&hubapi.Config{
		BaseURL: cfg.HubAPI.BaseURL,
		Token:   cfg.HubAPI.Token,
		Timeout: cfg.HubAPI.Timeout,
	}, appLogger)

	var uploader upload.Uploader = upload.NewHubUploader(hub)
	if cfg.Upload.Backend == "cloudinary" {
		cld, err := upload.NewCloudinaryUploader(&upload.CloudinaryConfig{
			CloudName: cfg.Upload.Cloudinary.CloudName,
			APIKey:    cfg.Upload.Cloudinary.APIKey,
			APISecret: cfg.Upload.Cloudinary.APISecret,
			Folder:    cfg.Upload.Cloudinary.Folder,
		})
		if err != nil {
			appLogger.Fatal("Could not configure Cloudinary", zap.Error(err))
		}
		uploader = cld
	}
	appLogger.Info("Upload backend selected", zap.String("backend", cfg.Upload.Backend))

	// 8. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(hub, cacheStore, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(hub, locker, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodUCPkg.Dependencies{
		API:       hub,
		Inventory: invUC,
		Resolver:  upload.NewResolver(uploader, cfg.Upload.Concurrency),
		Drafts:    drafts,
		Journal:   journal,
		Locker:    locker,
		Publisher: publisher,
		Logger:    appLogger,
	}, prodUCPkg.Config{
		DraftTTL:        cfg.Draft.TTL,
		SubmitLockTTL:   cfg.Draft.SubmitLockTTL,
		MaxCombinations: cfg.Variant.MaxCombinations,
		UploadMaxBytes:  cfg.Upload.MaxBytes,
	})

	// 9. Initialize Handlers
	catHandler := catH.NewCategoryHandler(catUC, appLogger)
	invHandler := invH.NewInventoryHandler(invUC, appLogger)
	prodHandler := prodH.NewProductHandler(prodUC, translator, appLogger)

	// 10. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		// Draft images travel inline.
		grpc.MaxRecvMsgSize(64<<20),
		grpc.ChainUnaryInterceptor(
			middleware.ContextInterceptor(),
			middleware.LoggingInterceptor(appLogger),
		),
	)

	// Register Services
	catH.Register(grpcServer, catHandler)
	invH.Register(grpcServer, invHandler)
	prodH.Register(grpcServer, prodHandler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(prodH.ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
