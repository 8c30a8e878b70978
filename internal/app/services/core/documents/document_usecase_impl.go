package documents

import (
	"context"
	"errors"
	"fmt"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/app/services/core/access"
	"medrecords-service/internal/app/services/core/accounts"
	"medrecords-service/internal/app/services/shared/audit"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/dto/responses"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

const (
	resourceDocument        = "document"
	resourcePatientDocument = "patient documents"
)

var (
	errRejected       = errors.New("document read rejected")
	errInvalidName    = errors.New("file name is empty after sanitizing")
	errPatientMissing = errors.New("patient account does not exist")
)

type documentUsecase struct {
	DocumentRepository contracts.DocumentRepository
	AccountRepository  contracts.AccountRepository
	BlobStorage        contracts.BlobStorage
	Audit              contracts.AuditPublisher
	Guard              *access.Guard
	Log                *zap.Logger
}

func NewDocumentUsecase(
	documentRepository contracts.DocumentRepository,
	accountRepository contracts.AccountRepository,
	blobStorage contracts.BlobStorage,
	auditPublisher contracts.AuditPublisher,
	guard *access.Guard,
	logger *zap.Logger,
) contracts.DocumentUsecase {
	return &documentUsecase{
		DocumentRepository: documentRepository,
		AccountRepository:  accountRepository,
		BlobStorage:        blobStorage,
		Audit:              auditPublisher,
		Guard:              guard,
		Log:                logger,
	}
}

func (uc *documentUsecase) GetPatientDashboard(ctx context.Context, actor *models.Session) (*responses.PatientDashboard, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("documentUsecase.GetPatientDashboard called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	patient, err := uc.Guard.Require(ctx, actor, models.ViewOwnDashboard(models.RolePatient))
	if err != nil {
		return nil, err
	}

	documents, err := uc.DocumentRepository.FindByPatientID(ctx, patient.ID)
	if err != nil {
		uc.Log.Error("documentUsecase.GetPatientDashboard error calling DocumentRepository.FindByPatientID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	return &responses.PatientDashboard{
		Account:   *accounts.ToAccountResponse(patient),
		Documents: toDocumentResponses(documents),
	}, nil
}

// GetDoctorDashboard lists documents of every patient currently assigned. The
// assignment set is read fresh, and a stray id of a deleted patient yields an
// empty list.
func (uc *documentUsecase) GetDoctorDashboard(ctx context.Context, actor *models.Session) (*responses.DoctorDashboard, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("documentUsecase.GetDoctorDashboard called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	doctor, err := uc.Guard.Require(ctx, actor, models.ViewOwnDashboard(models.RoleDoctor))
	if err != nil {
		return nil, err
	}

	patients := make([]responses.AssignedPatient, 0, len(doctor.AssignedPatients))
	for _, patientID := range doctor.AssignedPatients {
		patient, err := uc.AccountRepository.FindByID(ctx, patientID)
		if err != nil {
			return nil, err
		}

		switch uc.Guard.Authorizer.Authorize(ctx, doctor, models.ViewPatientDocuments(patient)) {
		case models.DecisionAllow:
		case models.DecisionNotFound:
			uc.Log.Info("documentUsecase.GetDoctorDashboard stray assignment",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPatientIDKey, patientID),
			)
			patients = append(patients, responses.AssignedPatient{
				PatientID: patientID,
				Documents: []responses.Document{},
			})
			continue
		default:
			continue
		}

		documents, err := uc.DocumentRepository.FindByPatientID(ctx, patientID)
		if err != nil {
			uc.Log.Error("documentUsecase.GetDoctorDashboard error calling DocumentRepository.FindByPatientID",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPatientIDKey, patientID),
				zap.Error(err),
			)
			return nil, err
		}
		patients = append(patients, responses.AssignedPatient{
			PatientID: patientID,
			Documents: toDocumentResponses(documents),
		})
	}

	uc.Log.Info("documentUsecase.GetDoctorDashboard succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(patients)),
	)
	return &responses.DoctorDashboard{
		Account:  *accounts.ToAccountResponse(doctor),
		Patients: patients,
	}, nil
}

func (uc *documentUsecase) ListPatientDocuments(ctx context.Context, actor *models.Session, patientID string) ([]responses.Document, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("documentUsecase.ListPatientDocuments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	patient, err := uc.AccountRepository.FindByID(ctx, patientID)
	if err != nil {
		uc.Log.Error("documentUsecase.ListPatientDocuments error calling AccountRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Error(err),
		)
		return nil, err
	}
	if err := uc.authorizeRead(ctx, actor, models.ViewPatientDocuments(patient), resourcePatientDocument, patientID); err != nil {
		return nil, err
	}

	documents, err := uc.DocumentRepository.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return toDocumentResponses(documents), nil
}

func (uc *documentUsecase) GetDocument(ctx context.Context, actor *models.Session, documentID string) (*responses.Document, error) {
	uc.Log.Info("documentUsecase.GetDocument called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)

	document, err := uc.readDocument(ctx, actor, documentID)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(document), nil
}

// DownloadDocument decides access on the metadata record before the blob
// store is touched.
func (uc *documentUsecase) DownloadDocument(ctx context.Context, actor *models.Session, documentID string) (*responses.DocumentContent, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("documentUsecase.DownloadDocument called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)

	document, err := uc.readDocument(ctx, actor, documentID)
	if err != nil {
		return nil, err
	}

	reader, info, err := uc.BlobStorage.Get(ctx, document.StoragePath)
	if err != nil {
		uc.Log.Error("documentUsecase.DownloadDocument error calling BlobStorage.Get",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBlobPathKey, document.StoragePath),
			zap.Error(err),
		)
		return nil, err
	}

	contentType := document.ContentType
	if contentType == "" {
		contentType = info.ContentType
	}
	if contentType == "" {
		contentType = constvars.BlobDefaultContentType
	}

	uc.Log.Info("documentUsecase.DownloadDocument succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)
	return &responses.DocumentContent{
		DocumentID:  document.ID,
		FileName:    document.FileName,
		ContentType: contentType,
		Size:        info.Size,
		Reader:      reader,
	}, nil
}

func (uc *documentUsecase) UploadDocument(ctx context.Context, actor *models.Session, request *requests.UploadDocument) (*responses.Document, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("documentUsecase.UploadDocument called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	admin, err := uc.Guard.Require(ctx, actor, models.AdminAction())
	if err != nil {
		return nil, err
	}

	fileName := utils.SanitizeFileName(request.FileName)
	if fileName == "" {
		return nil, exceptions.ErrInputValidation(errInvalidName)
	}

	patient, err := uc.AccountRepository.FindByID(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil || patient.Role != models.RolePatient {
		return nil, exceptions.ErrPatientNotFound(errPatientMissing, request.PatientID)
	}

	contentType := request.ContentType
	if contentType == "" {
		contentType = constvars.BlobDefaultContentType
	}
	path := fmt.Sprintf(constvars.BlobDocumentPathFormat, patient.ID, fileName)

	if err := uc.BlobStorage.Put(ctx, path, request.Content, request.Size, contentType); err != nil {
		uc.Log.Error("documentUsecase.UploadDocument error calling BlobStorage.Put",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBlobPathKey, path),
			zap.Error(err),
		)
		return nil, err
	}

	publicURL, err := uc.BlobStorage.MakePublic(ctx, path)
	if err != nil {
		uc.Log.Error("documentUsecase.UploadDocument error calling BlobStorage.MakePublic",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBlobPathKey, path),
			zap.Error(err),
		)
		return nil, err
	}

	document := &models.Document{
		ID:          utils.GenerateDocumentID(),
		PatientID:   patient.ID,
		StoragePath: path,
		PublicURL:   publicURL,
		FileName:    fileName,
		ContentType: contentType,
		Size:        request.Size,
		UploadDate:  time.Now().UTC(),
	}
	if err := uc.DocumentRepository.Create(ctx, document); err != nil {
		uc.compensateBlob(ctx, path, err)
		return nil, err
	}

	audit.Emit(ctx, uc.Audit, uc.Log, &models.AuditEvent{
		Type:      models.AuditEventDocumentUploaded,
		RequestID: requestID,
		ActorID:   admin.ID,
		SubjectID: patient.ID,
		Attributes: map[string]string{
			"document_id": document.ID,
			"path":        path,
		},
	})

	uc.Log.Info("documentUsecase.UploadDocument succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, document.ID),
	)
	return toDocumentResponse(document), nil
}

// compensateBlob removes an uploaded object whose metadata record could not
// be written. A failed removal leaves a public object nothing points to.
func (uc *documentUsecase) compensateBlob(ctx context.Context, path string, createErr error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Error("documentUsecase.UploadDocument error calling DocumentRepository.Create, removing blob",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBlobPathKey, path),
		zap.Error(createErr),
	)

	compensationCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constvars.DefaultRequestTimeoutSec*time.Second)
	defer cancel()

	if err := uc.BlobStorage.Remove(compensationCtx, path); err != nil {
		uc.Log.Error("documentUsecase.UploadDocument orphaned blob",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBlobPathKey, path),
			zap.NamedError("create_error", createErr),
			zap.NamedError("compensation_error", err),
		)
	}
}

func (uc *documentUsecase) readDocument(ctx context.Context, actor *models.Session, documentID string) (*models.Document, error) {
	document, err := uc.DocumentRepository.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeRead(ctx, actor, models.ViewDocument(document), resourceDocument, documentID); err != nil {
		return nil, err
	}
	return document, nil
}

// authorizeRead turns NotFound and Deny into the same client-facing rejection.
func (uc *documentUsecase) authorizeRead(ctx context.Context, actor *models.Session, action models.Action, resource, id string) error {
	_, decision, err := uc.Guard.Check(ctx, actor, action)
	if err != nil {
		return err
	}
	switch decision {
	case models.DecisionAllow:
		return nil
	case models.DecisionNotFound:
		return exceptions.ErrResourceUnavailable(errRejected, exceptions.ErrKindNotFound, resource, id)
	}
	return exceptions.ErrResourceUnavailable(errRejected, exceptions.ErrKindAccessDenied, resource, id)
}

func toDocumentResponse(document *models.Document) *responses.Document {
	return &responses.Document{
		ID:          document.ID,
		PatientID:   document.PatientID,
		FileName:    document.FileName,
		ContentType: document.ContentType,
		Size:        document.Size,
		PublicURL:   document.PublicURL,
		UploadDate:  document.UploadDate,
	}
}

func toDocumentResponses(documents []models.Document) []responses.Document {
	result := make([]responses.Document, 0, len(documents))
	for i := range documents {
		result = append(result, *toDocumentResponse(&documents[i]))
	}
	return result
}
