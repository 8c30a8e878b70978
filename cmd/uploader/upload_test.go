package main

import (
	"context"
	"io"
	"medrecords-service/internal/app/contracts/contractstest"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/app/services/core/access"
	"medrecords-service/internal/app/services/core/documents"
	"medrecords-service/internal/pkg/exceptions"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type uploaderFixture struct {
	uploader  *uploader
	documents *contractstest.DocumentStore
	blobs     *contractstest.BlobStore
}

func newUploaderFixture(t *testing.T) *uploaderFixture {
	t.Helper()
	accountStore := contractstest.NewAccountStore(
		models.Account{ID: "a1", Email: "admin@clinic.test", Role: models.RoleAdmin},
		models.Account{ID: "d1", Email: "doc@clinic.test", Role: models.RoleDoctor},
		models.Account{ID: "p1", Email: "p1@clinic.test", Role: models.RolePatient},
	)
	identities := contractstest.NewIdentityDirectory()
	identities.Register("a1", "admin@clinic.test", "pw")
	identities.Register("d1", "doc@clinic.test", "pw")
	identities.Register("p1", "p1@clinic.test", "pw")

	authorizer, err := access.NewAuthorizer(zap.NewNop())
	require.NoError(t, err)
	recorder := &contractstest.AuditRecorder{}
	documentStore := contractstest.NewDocumentStore()
	blobs := contractstest.NewBlobStore()

	cliLogger := logrus.New()
	cliLogger.SetOutput(io.Discard)

	return &uploaderFixture{
		uploader: &uploader{
			log:        cliLogger,
			identities: identities,
			accounts:   accountStore,
			documentUsecase: documents.NewDocumentUsecase(
				documentStore,
				accountStore,
				blobs,
				recorder,
				access.NewGuard(accountStore, authorizer, recorder, zap.NewNop()),
				zap.NewNop(),
			),
		},
		documents: documentStore,
		blobs:     blobs,
	}
}

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0o600))
	return path
}

func TestUploader_Run(t *testing.T) {
	f := newUploaderFixture(t)
	path := writeTempFile(t, "Lab Results.pdf")

	err := f.uploader.run(context.Background(), uploadOptions{
		patientEmail: " P1@clinic.test ",
		adminEmail:   "admin@clinic.test",
		filePath:     path,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.documents.Count())
	assert.True(t, f.blobs.IsPublic("pdfs/p1/Lab Results.pdf"))
}

func TestUploader_RunRequiresAdmin(t *testing.T) {
	f := newUploaderFixture(t)
	path := writeTempFile(t, "scan.pdf")

	err := f.uploader.run(context.Background(), uploadOptions{
		patientEmail: "p1@clinic.test",
		adminEmail:   "doc@clinic.test",
		filePath:     path,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, exceptions.ErrKindAccessDenied)
	assert.Equal(t, 0, f.documents.Count())
}

func TestUploader_RunUnknownPatient(t *testing.T) {
	f := newUploaderFixture(t)
	path := writeTempFile(t, "scan.pdf")

	err := f.uploader.run(context.Background(), uploadOptions{
		patientEmail: "ghost@clinic.test",
		adminEmail:   "admin@clinic.test",
		filePath:     path,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, exceptions.ErrKindNotFound)
}

func TestUploader_RunMissingFile(t *testing.T) {
	f := newUploaderFixture(t)

	err := f.uploader.run(context.Background(), uploadOptions{
		patientEmail: "p1@clinic.test",
		adminEmail:   "admin@clinic.test",
		filePath:     filepath.Join(t.TempDir(), "missing.pdf"),
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestContentTypeOf(t *testing.T) {
	assert.Equal(t, "application/pdf", contentTypeOf("scan.PDF"))
	assert.Equal(t, "application/pdf", contentTypeOf("no-extension"))
}

func TestTeardown_RunsInReverseOrder(t *testing.T) {
	var order []string
	var closers teardown
	closers.add(func() { order = append(order, "logger") })
	closers.add(func() { order = append(order, "mongo") })

	closers.run()
	assert.Equal(t, []string{"mongo", "logger"}, order)

	var empty teardown
	assert.NotPanics(t, empty.run)
}
