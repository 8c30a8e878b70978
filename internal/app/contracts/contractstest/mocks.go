package contractstest

import (
	"context"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/dto/responses"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisRepository) DeleteIfEquals(ctx context.Context, key string, value interface{}) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionService) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockDocumentUsecase struct {
	mock.Mock
}

func (m *MockDocumentUsecase) GetPatientDashboard(ctx context.Context, actor *models.Session) (*responses.PatientDashboard, error) {
	args := m.Called(ctx, actor)
	dashboard, _ := args.Get(0).(*responses.PatientDashboard)
	return dashboard, args.Error(1)
}

func (m *MockDocumentUsecase) GetDoctorDashboard(ctx context.Context, actor *models.Session) (*responses.DoctorDashboard, error) {
	args := m.Called(ctx, actor)
	dashboard, _ := args.Get(0).(*responses.DoctorDashboard)
	return dashboard, args.Error(1)
}

func (m *MockDocumentUsecase) ListPatientDocuments(ctx context.Context, actor *models.Session, patientID string) ([]responses.Document, error) {
	args := m.Called(ctx, actor, patientID)
	documents, _ := args.Get(0).([]responses.Document)
	return documents, args.Error(1)
}

func (m *MockDocumentUsecase) GetDocument(ctx context.Context, actor *models.Session, documentID string) (*responses.Document, error) {
	args := m.Called(ctx, actor, documentID)
	document, _ := args.Get(0).(*responses.Document)
	return document, args.Error(1)
}

func (m *MockDocumentUsecase) DownloadDocument(ctx context.Context, actor *models.Session, documentID string) (*responses.DocumentContent, error) {
	args := m.Called(ctx, actor, documentID)
	content, _ := args.Get(0).(*responses.DocumentContent)
	return content, args.Error(1)
}

func (m *MockDocumentUsecase) UploadDocument(ctx context.Context, actor *models.Session, request *requests.UploadDocument) (*responses.Document, error) {
	args := m.Called(ctx, actor, request)
	document, _ := args.Get(0).(*responses.Document)
	return document, args.Error(1)
}
