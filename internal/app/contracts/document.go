package contracts

import (
	"context"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/dto/responses"
)

type DocumentUsecase interface {
	GetPatientDashboard(ctx context.Context, actor *models.Session) (*responses.PatientDashboard, error)
	GetDoctorDashboard(ctx context.Context, actor *models.Session) (*responses.DoctorDashboard, error)
	ListPatientDocuments(ctx context.Context, actor *models.Session, patientID string) ([]responses.Document, error)
	GetDocument(ctx context.Context, actor *models.Session, documentID string) (*responses.Document, error)
	DownloadDocument(ctx context.Context, actor *models.Session, documentID string) (*responses.DocumentContent, error)
	UploadDocument(ctx context.Context, actor *models.Session, request *requests.UploadDocument) (*responses.Document, error)
}

type DocumentRepository interface {
	FindByID(ctx context.Context, documentID string) (*models.Document, error)
	FindByPatientID(ctx context.Context, patientID string) ([]models.Document, error)
	Create(ctx context.Context, document *models.Document) error
}
