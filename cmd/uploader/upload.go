package main

import (
	"context"
	"fmt"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/drivers/database"
	"medrecords-service/internal/app/drivers/identity"
	"medrecords-service/internal/app/drivers/logger"
	"medrecords-service/internal/app/drivers/storage"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/app/services/core/access"
	"medrecords-service/internal/app/services/core/accounts"
	"medrecords-service/internal/app/services/core/documents"
	"medrecords-service/internal/app/services/shared/audit"
	identityDirectory "medrecords-service/internal/app/services/shared/identity"
	blobStorage "medrecords-service/internal/app/services/shared/storage"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/requests"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

const uploadTimeout = 5 * time.Minute

type uploadOptions struct {
	patientEmail string
	adminEmail   string
	filePath     string
}

// uploader resolves accounts by email and hands the file to the same
// document usecase the HTTP upload goes through.
type uploader struct {
	log             *logrus.Logger
	identities      contracts.IdentityDirectory
	accounts        contracts.AccountRepository
	documentUsecase contracts.DocumentUsecase
}

func newUploadCommand() *cobra.Command {
	opts := uploadOptions{}
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a PDF into a patient's records",
		RunE: func(cmd *cobra.Command, args []string) error {
			driverConfig := config.NewDriverConfig()
			internalConfig := config.NewInternalConfig()
			cliLogger := logger.NewLogrusLogger(driverConfig, internalConfig)

			up, cleanup, err := connectUploader(cmd.Context(), cliLogger, driverConfig, internalConfig)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), uploadTimeout)
			defer cancel()
			return up.run(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.patientEmail, "email", "", "email of the patient who owns the document")
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", "", "email of the admin account performing the upload")
	cmd.Flags().StringVar(&opts.filePath, "file", "", "path of the file to upload")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("admin-email")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// teardown releases what connectUploader opened, last opened first.
type teardown []func()

func (t *teardown) add(release func()) {
	*t = append(*t, release)
}

func (t teardown) run() {
	for i := len(t) - 1; i >= 0; i-- {
		t[i]()
	}
}

func connectUploader(ctx context.Context, cliLogger *logrus.Logger, driverConfig *config.DriverConfig, internalConfig *config.InternalConfig) (up *uploader, cleanup func(), err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	var closers teardown
	closers.add(func() { _ = zapLogger.Sync() })
	defer func() {
		if err != nil {
			closers.run()
		}
	}()

	mongoDB, err := database.NewMongoDB(driverConfig)
	if err != nil {
		return nil, nil, err
	}
	closers.add(func() { disconnectMongo(cliLogger, mongoDB.Client()) })

	minioClient, err := storage.NewMinio(ctx, driverConfig, internalConfig.Minio.BucketName)
	if err != nil {
		return nil, nil, err
	}
	if err := identity.InitSupertokens(driverConfig); err != nil {
		return nil, nil, err
	}

	accountRepository := accounts.NewAccountMongoRepository(mongoDB)
	auditPublisher := audit.NewLogPublisher(zapLogger)
	authorizer, err := access.NewAuthorizer(zapLogger)
	if err != nil {
		return nil, nil, err
	}
	guard := access.NewGuard(accountRepository, authorizer, auditPublisher, zapLogger)
	documentUsecase := documents.NewDocumentUsecase(
		documents.NewDocumentMongoRepository(mongoDB),
		accountRepository,
		blobStorage.NewMinioStorage(minioClient, internalConfig.Minio.BucketName, internalConfig.Minio.PublicURLScheme, zapLogger),
		auditPublisher,
		guard,
		zapLogger,
	)

	return &uploader{
		log:             cliLogger,
		identities:      identityDirectory.NewSupertokensDirectory(driverConfig.Supertoken.TenantID, zapLogger),
		accounts:        accountRepository,
		documentUsecase: documentUsecase,
	}, closers.run, nil
}

func disconnectMongo(cliLogger *logrus.Logger, client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		cliLogger.WithError(err).Warn("closing mongo database")
	}
}

func (u *uploader) run(ctx context.Context, opts uploadOptions) error {
	admin, err := u.resolveAccount(ctx, opts.adminEmail)
	if err != nil {
		return fmt.Errorf("resolve admin %s: %w", opts.adminEmail, err)
	}
	patient, err := u.resolveAccount(ctx, opts.patientEmail)
	if err != nil {
		return fmt.Errorf("resolve patient %s: %w", opts.patientEmail, err)
	}
	u.log.WithFields(logrus.Fields{
		"patient_id": patient.ID,
		"file":       opts.filePath,
	}).Info("uploading document")

	file, err := os.Open(opts.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	document, err := u.documentUsecase.UploadDocument(ctx, &models.Session{
		AccountID: admin.ID,
		Email:     admin.Email,
		Role:      admin.Role,
	}, &requests.UploadDocument{
		PatientID:   patient.ID,
		FileName:    filepath.Base(opts.filePath),
		ContentType: contentTypeOf(opts.filePath),
		Size:        info.Size(),
		Content:     file,
	})
	if err != nil {
		return err
	}

	u.log.WithFields(logrus.Fields{
		"document_id": document.ID,
		"public_url":  document.PublicURL,
	}).Info("document uploaded")
	return nil
}

func (u *uploader) resolveAccount(ctx context.Context, email string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	accountID, err := u.identities.LookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	account, err := u.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("identity %s has no account record", accountID)
	}
	return account, nil
}

func contentTypeOf(path string) string {
	if contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); contentType != "" {
		return contentType
	}
	return constvars.BlobDefaultContentType
}
