package main

import (
	"context"
	"log"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/delivery/http/controllers"
	"medrecords-service/internal/app/delivery/http/middlewares"
	"medrecords-service/internal/app/delivery/http/routers"
	"medrecords-service/internal/app/drivers/database"
	"medrecords-service/internal/app/drivers/identity"
	"medrecords-service/internal/app/drivers/logger"
	"medrecords-service/internal/app/drivers/messaging"
	"medrecords-service/internal/app/drivers/storage"
	"medrecords-service/internal/app/services/core/access"
	"medrecords-service/internal/app/services/core/accounts"
	"medrecords-service/internal/app/services/core/assignments"
	"medrecords-service/internal/app/services/core/auth"
	"medrecords-service/internal/app/services/core/documents"
	"medrecords-service/internal/app/services/core/reconciliation"
	"medrecords-service/internal/app/services/core/session"
	"medrecords-service/internal/app/services/shared/audit"
	identityDirectory "medrecords-service/internal/app/services/shared/identity"
	"medrecords-service/internal/app/services/shared/locker"
	"medrecords-service/internal/app/services/shared/redis"
	blobStorage "medrecords-service/internal/app/services/shared/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	zapLogger.Info("Starting medrecords-service",
		zap.String("version", Version),
		zap.String("tag", Tag),
	)

	mongoDB, err := database.NewMongoDB(driverConfig)
	if err != nil {
		zapLogger.Fatal("Failed to connect to mongo database", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(driverConfig)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	minioClient, err := storage.NewMinio(initCtx, driverConfig, internalConfig.Minio.BucketName)
	initCancel()
	if err != nil {
		zapLogger.Fatal("Failed to connect to minio", zap.Error(err))
	}

	// Audit events fall back to the log when the broker is unreachable.
	rabbitMQConnection, err := messaging.NewRabbitMQ(driverConfig)
	if err != nil {
		zapLogger.Warn("RabbitMQ unavailable, audit events will only be logged", zap.Error(err))
	}

	if err := identity.InitSupertokens(driverConfig); err != nil {
		zapLogger.Fatal("Failed to initialize supertokens", zap.Error(err))
	}

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		RabbitMQ:       rabbitMQConnection,
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		zapLogger.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error while closing connections: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig

	// Shared
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, log)
	minioStorage := blobStorage.NewMinioStorage(
		bootstrap.Minio,
		internalConfig.Minio.BucketName,
		internalConfig.Minio.PublicURLScheme,
		log,
	)
	supertokensDirectory := identityDirectory.NewSupertokensDirectory(bootstrap.DriverConfig.Supertoken.TenantID, log)

	var auditPublisher contracts.AuditPublisher
	if bootstrap.RabbitMQ != nil {
		publisher, err := audit.NewRabbitMQPublisher(bootstrap.RabbitMQ, internalConfig.RabbitMQ.AuditQueue, log)
		if err != nil {
			return err
		}
		auditPublisher = publisher
	} else {
		auditPublisher = audit.NewLogPublisher(log)
	}

	// Repositories
	accountRepository := accounts.NewAccountMongoRepository(bootstrap.MongoDB)
	documentRepository := documents.NewDocumentMongoRepository(bootstrap.MongoDB)

	// Access
	authorizer, err := access.NewAuthorizer(log)
	if err != nil {
		return err
	}
	guard := access.NewGuard(accountRepository, authorizer, auditPublisher, log)

	// Usecases
	sessionService := session.NewSessionService(redisRepository, internalConfig, log)
	authUsecase := auth.NewAuthUsecase(supertokensDirectory, accountRepository, sessionService, internalConfig, log)
	accountUsecase := accounts.NewAccountUsecase(accountRepository, supertokensDirectory, lockService, auditPublisher, guard, internalConfig, log)
	assignmentUsecase := assignments.NewAssignmentUsecase(accountRepository, lockService, auditPublisher, guard, internalConfig, log)
	documentUsecase := documents.NewDocumentUsecase(documentRepository, accountRepository, minioStorage, auditPublisher, guard, log)

	// Background reconciliation of stale assignments
	worker := reconciliation.NewWorker(log, internalConfig, lockService, accountRepository)
	if err := worker.Start(); err != nil {
		return err
	}
	bootstrap.WorkerStop = worker.Stop

	// Delivery
	middlewares := middlewares.NewMiddlewares(log, sessionService, internalConfig)
	authController := controllers.NewAuthController(log, authUsecase)
	dashboardController := controllers.NewDashboardController(log, documentUsecase, accountUsecase)
	documentController := controllers.NewDocumentController(
		log,
		documentUsecase,
		int64(internalConfig.App.MultipartMemoryInMegabyte)<<20,
		internalConfig.App.DownloadTimeout,
	)
	accountController := controllers.NewAccountController(log, accountUsecase)
	assignmentController := controllers.NewAssignmentController(log, assignmentUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		middlewares,
		authController,
		dashboardController,
		documentController,
		accountController,
		assignmentController,
	)
	return nil
}
