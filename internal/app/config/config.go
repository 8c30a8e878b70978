package config

import (
	"medrecords-service/internal/pkg/utils"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medrecords"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Supertoken: Supertoken{
			ConnectionURI: utils.GetEnvString("SUPERTOKENS_CONNECTION_URI", "http://localhost:3567"),
			APIKey:        utils.GetEnvString("SUPERTOKENS_API_KEY", ""),
			AppName:       utils.GetEnvString("SUPERTOKENS_APP_NAME", "medrecords"),
			APIDomain:     utils.GetEnvString("SUPERTOKENS_API_DOMAIN", "http://localhost:8080"),
			WebsiteDomain: utils.GetEnvString("SUPERTOKENS_WEBSITE_DOMAIN", "http://localhost:3000"),
			TenantID:      utils.GetEnvString("SUPERTOKENS_TENANT_ID", "public"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                            utils.GetEnvString("APP_ENV", "development"),
			Port:                           utils.GetEnvString("APP_PORT", "8080"),
			Version:                        utils.GetEnvString("APP_VERSION", "v1"),
			Address:                        utils.GetEnvString("APP_ADDRESS", "localhost"),
			EndpointPrefix:                 utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                    utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds:       utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestBodyLimitInMegabyte:     utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 20),
			MultipartMemoryInMegabyte:      utils.GetEnvInt("APP_MULTIPART_MEMORY_IN_MEGABYTE", 8),
			DownloadTimeout:                utils.GetEnvDuration("APP_DOWNLOAD_TIMEOUT", 5*time.Minute),
			LoginSessionExpiredTimeInHours: utils.GetEnvInt("APP_LOGIN_SESSION_EXPIRED_TIME_IN_HOURS", 24),
			AssignmentMaxRetries:           utils.GetEnvInt("APP_ASSIGNMENT_MAX_RETRIES", 3),
			PatientLockTTLInSeconds:        utils.GetEnvInt("APP_PATIENT_LOCK_TTL_IN_SECONDS", 30),
			CascadeWritesPerSecond:         utils.GetEnvFloat("APP_CASCADE_WRITES_PER_SECOND", 20),
			ReconciliationCronSpec:         utils.GetEnvString("APP_RECONCILIATION_CRON_SPEC", "@every 1h"),
			ReconciliationLockTTL:          utils.GetEnvDuration("APP_RECONCILIATION_LOCK_TTL", 10*time.Minute),
			AllowedOrigins:                 utils.GetEnvString("APP_ALLOWED_ORIGINS", "*"),
		},
		JWT: JWT{
			Secret: utils.GetEnvString("JWT_SECRET", "medrecords-local-secret"),
		},
		Minio: AppMinio{
			BucketName:      utils.GetEnvString("APP_MINIO_BUCKET_NAME", "medical-records"),
			PublicURLScheme: utils.GetEnvString("APP_MINIO_PUBLIC_URL_SCHEME", "http"),
		},
		RabbitMQ: AppRabbitMQ{
			AuditQueue: utils.GetEnvString("APP_RABBITMQ_AUDIT_QUEUE", "medrecords.audit"),
		},
	}
}
