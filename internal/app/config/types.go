package config

import "time"

type (
	DriverConfig struct {
		MongoDB    MongoDB
		Redis      Redis
		Logger     Logger
		RabbitMQ   RabbitMQ
		Minio      Minio
		Supertoken Supertoken
	}
	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}
	Supertoken struct {
		ConnectionURI string
		APIKey        string
		AppName       string
		APIDomain     string
		WebsiteDomain string
		TenantID      string
	}
)

type (
	InternalConfig struct {
		App      App
		JWT      JWT
		Minio    AppMinio
		RabbitMQ AppRabbitMQ
	}

	App struct {
		Env                            string
		Port                           string
		Version                        string
		Address                        string
		EndpointPrefix                 string
		MaxRequests                    int
		ShutdownTimeoutInSeconds       int
		RequestBodyLimitInMegabyte     int
		MultipartMemoryInMegabyte      int
		DownloadTimeout                time.Duration
		LoginSessionExpiredTimeInHours int
		AssignmentMaxRetries           int
		PatientLockTTLInSeconds        int
		CascadeWritesPerSecond         float64
		ReconciliationCronSpec         string
		ReconciliationLockTTL          time.Duration
		// Comma separated list for CORS
		AllowedOrigins string
	}

	JWT struct {
		Secret string
	}

	AppMinio struct {
		BucketName      string
		PublicURLScheme string
	}

	AppRabbitMQ struct {
		AuditQueue string
	}
)
