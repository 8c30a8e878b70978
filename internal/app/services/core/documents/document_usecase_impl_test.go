package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"medrecords-service/internal/app/contracts/contractstest"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/app/services/core/access"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	admin    = models.Account{ID: "a1", Email: "admin@clinic.test", Role: models.RoleAdmin}
	doctor   = models.Account{ID: "d1", Email: "doc@clinic.test", Role: models.RoleDoctor}
	patient  = models.Account{ID: "p1", Email: "p1@clinic.test", Role: models.RolePatient}
	patient2 = models.Account{ID: "p2", Email: "p2@clinic.test", Role: models.RolePatient}

	base     = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	older    = models.Document{ID: "doc-old", PatientID: "p1", StoragePath: "pdfs/p1/old.pdf", FileName: "old.pdf", ContentType: "application/pdf", UploadDate: base}
	newer    = models.Document{ID: "doc-new", PatientID: "p1", StoragePath: "pdfs/p1/new.pdf", FileName: "new.pdf", UploadDate: base.Add(time.Hour)}
	otherDoc = models.Document{ID: "doc-p2", PatientID: "p2", StoragePath: "pdfs/p2/lab.pdf", FileName: "lab.pdf", UploadDate: base}
)

func sessionOf(account models.Account) *models.Session {
	return &models.Session{AccountID: account.ID, Email: account.Email, Role: account.Role}
}

type fixture struct {
	usecase   *documentUsecase
	accounts  *contractstest.AccountStore
	documents *contractstest.DocumentStore
	blobs     *contractstest.BlobStore
	audit     *contractstest.AuditRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	authorizer, err := access.NewAuthorizer(zap.NewNop())
	require.NoError(t, err)

	f := &fixture{
		accounts:  contractstest.NewAccountStore(admin, doctor, patient, patient2),
		documents: contractstest.NewDocumentStore(older, newer, otherDoc),
		blobs:     contractstest.NewBlobStore(),
		audit:     &contractstest.AuditRecorder{},
	}
	f.accounts.ForceAssign(doctor.ID, patient.ID)
	f.blobs.Seed(older.StoragePath, []byte("%PDF-old"), "application/pdf")
	f.blobs.Seed(newer.StoragePath, []byte("%PDF-new"), "")
	f.blobs.Seed(otherDoc.StoragePath, []byte("%PDF-p2"), "application/pdf")

	guard := access.NewGuard(f.accounts, authorizer, f.audit, zap.NewNop())
	f.usecase = NewDocumentUsecase(f.documents, f.accounts, f.blobs, f.audit, guard, zap.NewNop()).(*documentUsecase)
	return f
}

func TestDocumentUsecase_PatientDashboard(t *testing.T) {
	f := newFixture(t)
	dashboard, err := f.usecase.GetPatientDashboard(context.Background(), sessionOf(patient))
	require.NoError(t, err)

	assert.Equal(t, patient.ID, dashboard.Account.ID)
	require.Len(t, dashboard.Documents, 2)
	assert.Equal(t, newer.ID, dashboard.Documents[0].ID)
	assert.Equal(t, older.ID, dashboard.Documents[1].ID)

	_, err = f.usecase.GetPatientDashboard(context.Background(), sessionOf(doctor))
	assert.ErrorIs(t, err, exceptions.ErrKindAccessDenied)
}

func TestDocumentUsecase_DoctorDashboard(t *testing.T) {
	f := newFixture(t)
	f.accounts.ForceAssign(doctor.ID, patient.ID, "deleted-patient")

	dashboard, err := f.usecase.GetDoctorDashboard(context.Background(), sessionOf(doctor))
	require.NoError(t, err)
	require.Len(t, dashboard.Patients, 2)
	assert.Equal(t, patient.ID, dashboard.Patients[0].PatientID)
	assert.Len(t, dashboard.Patients[0].Documents, 2)
	assert.Empty(t, dashboard.Patients[1].Documents)

	// revocation takes effect on the next request
	f.accounts.ForceAssign(doctor.ID)
	dashboard, err = f.usecase.GetDoctorDashboard(context.Background(), sessionOf(doctor))
	require.NoError(t, err)
	assert.Empty(t, dashboard.Patients)
}

func TestDocumentUsecase_ListPatientDocuments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	docs, err := f.usecase.ListPatientDocuments(ctx, sessionOf(doctor), patient.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = f.usecase.ListPatientDocuments(ctx, sessionOf(doctor), patient2.ID)
	assert.ErrorIs(t, err, exceptions.ErrKindAccessDenied)

	_, err = f.usecase.ListPatientDocuments(ctx, sessionOf(patient), patient.ID)
	assert.ErrorIs(t, err, exceptions.ErrKindAccessDenied)

	docs, err = f.usecase.ListPatientDocuments(ctx, sessionOf(admin), patient2.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentUsecase_ListPatientDocuments_UnknownPatient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.accounts.ForceAssign(doctor.ID, patient.ID, "deleted-patient")

	_, deniedErr := f.usecase.ListPatientDocuments(ctx, sessionOf(doctor), patient2.ID)
	var denied *exceptions.CustomError
	require.True(t, errors.As(deniedErr, &denied))

	cases := []struct {
		name      string
		actor     models.Account
		patientID string
	}{
		{"admin asks for an id with no account", admin, "no-such-patient"},
		{"doctor follows a stray assignment", doctor, "deleted-patient"},
		{"admin asks for a doctor's id", admin, doctor.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docs, err := f.usecase.ListPatientDocuments(ctx, sessionOf(tc.actor), tc.patientID)
			assert.Nil(t, docs)
			require.ErrorIs(t, err, exceptions.ErrKindNotFound)

			var missing *exceptions.CustomError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, denied.StatusCode, missing.StatusCode)
			assert.Equal(t, denied.ClientMessage, missing.ClientMessage)
		})
	}
}

func TestDocumentUsecase_UniformRejection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, missingErr := f.usecase.GetDocument(ctx, sessionOf(doctor), "does-not-exist")
	_, deniedErr := f.usecase.GetDocument(ctx, sessionOf(doctor), otherDoc.ID)

	var missing, denied *exceptions.CustomError
	require.True(t, errors.As(missingErr, &missing))
	require.True(t, errors.As(deniedErr, &denied))

	assert.Equal(t, missing.StatusCode, denied.StatusCode)
	assert.Equal(t, missing.ClientMessage, denied.ClientMessage)
	assert.ErrorIs(t, missingErr, exceptions.ErrKindNotFound)
	assert.ErrorIs(t, deniedErr, exceptions.ErrKindAccessDenied)
}

func TestDocumentUsecase_DownloadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("owner downloads with default content type", func(t *testing.T) {
		f := newFixture(t)
		content, err := f.usecase.DownloadDocument(ctx, sessionOf(patient), newer.ID)
		require.NoError(t, err)
		defer content.Reader.Close()

		data, err := io.ReadAll(content.Reader)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-new", string(data))
		assert.Equal(t, "application/pdf", content.ContentType)
		assert.Equal(t, "new.pdf", content.FileName)
	})

	t.Run("rejection happens before any blob read", func(t *testing.T) {
		f := newFixture(t)
		for _, session := range []*models.Session{sessionOf(patient), sessionOf(doctor)} {
			_, err := f.usecase.DownloadDocument(ctx, session, otherDoc.ID)
			assert.ErrorIs(t, err, exceptions.ErrKindAccessDenied)
		}
		_, err := f.usecase.DownloadDocument(ctx, sessionOf(admin), "does-not-exist")
		assert.ErrorIs(t, err, exceptions.ErrKindNotFound)
		assert.Equal(t, 0, f.blobs.ReadCount())
	})

	t.Run("admin downloads any document", func(t *testing.T) {
		f := newFixture(t)
		content, err := f.usecase.DownloadDocument(ctx, sessionOf(admin), otherDoc.ID)
		require.NoError(t, err)
		content.Reader.Close()
		assert.Equal(t, 1, f.blobs.ReadCount())
	})
}

func TestDocumentUsecase_UploadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("stores public blob and metadata", func(t *testing.T) {
		f := newFixture(t)
		doc, err := f.usecase.UploadDocument(ctx, sessionOf(admin), &requests.UploadDocument{
			PatientID: patient2.ID,
			FileName:  "../../etc/scan.pdf",
			Size:      4,
			Content:   bytes.NewReader([]byte("%PDF")),
		})
		require.NoError(t, err)

		assert.Equal(t, "scan.pdf", doc.FileName)
		assert.Equal(t, "application/pdf", doc.ContentType)
		assert.Equal(t, "http://blob.test/records/pdfs/p2/scan.pdf", doc.PublicURL)
		assert.True(t, f.blobs.IsPublic("pdfs/p2/scan.pdf"))
		assert.Equal(t, 4, f.documents.Count())
		assert.Contains(t, f.audit.Types(), models.AuditEventDocumentUploaded)
	})

	t.Run("target must be a patient", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.usecase.UploadDocument(ctx, sessionOf(admin), &requests.UploadDocument{
			PatientID: doctor.ID, FileName: "x.pdf", Content: bytes.NewReader(nil),
		})
		assert.ErrorIs(t, err, exceptions.ErrKindNotFound)
		assert.Equal(t, 3, f.documents.Count())
	})

	t.Run("non admin rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.usecase.UploadDocument(ctx, sessionOf(doctor), &requests.UploadDocument{
			PatientID: patient.ID, FileName: "x.pdf", Content: bytes.NewReader(nil),
		})
		assert.ErrorIs(t, err, exceptions.ErrKindAccessDenied)
	})

	t.Run("metadata failure removes the blob", func(t *testing.T) {
		f := newFixture(t)
		f.documents.Errors["Create"] = errors.New("mongo down")
		_, err := f.usecase.UploadDocument(ctx, sessionOf(admin), &requests.UploadDocument{
			PatientID: patient.ID, FileName: "scan.pdf", Content: bytes.NewReader([]byte("%PDF")),
		})
		require.Error(t, err)
		assert.False(t, f.blobs.Exists("pdfs/p1/scan.pdf"))
		assert.False(t, f.blobs.IsPublic("pdfs/p1/scan.pdf"))
		assert.NotContains(t, f.audit.Types(), models.AuditEventDocumentUploaded)
	})

	t.Run("failed blob removal is logged as orphan", func(t *testing.T) {
		f := newFixture(t)
		core, logs := observer.New(zap.ErrorLevel)
		f.usecase.Log = zap.New(core)
		f.documents.Errors["Create"] = errors.New("mongo down")
		f.blobs.Errors["Remove"] = errors.New("minio down")

		_, err := f.usecase.UploadDocument(ctx, sessionOf(admin), &requests.UploadDocument{
			PatientID: patient.ID, FileName: "scan.pdf", Content: bytes.NewReader([]byte("%PDF")),
		})
		require.Error(t, err)

		orphans := logs.FilterMessage("documentUsecase.UploadDocument orphaned blob").All()
		require.Len(t, orphans, 1)
		assert.Equal(t, "pdfs/p1/scan.pdf", orphans[0].ContextMap()["blob_path"])
	})

	t.Run("blob failure records nothing", func(t *testing.T) {
		f := newFixture(t)
		f.blobs.Errors["Put"] = errors.New("minio down")
		_, err := f.usecase.UploadDocument(ctx, sessionOf(admin), &requests.UploadDocument{
			PatientID: patient.ID, FileName: "x.pdf", Content: bytes.NewReader(nil),
		})
		assert.ErrorIs(t, err, exceptions.ErrKindUpstreamUnavailable)
		assert.Equal(t, 3, f.documents.Count())
	})
}
