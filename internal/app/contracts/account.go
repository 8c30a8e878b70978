package contracts

import (
	"context"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/dto/responses"
)

type AccountUsecase interface {
	CreateAccount(ctx context.Context, actor *models.Session, request *requests.CreateAccount) (*responses.Account, error)
	DeleteAccount(ctx context.Context, actor *models.Session, accountID string) error
	ListAccounts(ctx context.Context, actor *models.Session, role string) ([]responses.Account, error)
	GetAccount(ctx context.Context, actor *models.Session, accountID string) (*responses.Account, error)
	UpdateAccount(ctx context.Context, actor *models.Session, accountID string, request *requests.UpdateAccount) (*responses.Account, error)
	GetAdminDashboard(ctx context.Context, actor *models.Session) (*responses.AdminDashboard, error)
}

// AccountRepository returns (nil, nil) from the Find* lookups when nothing matches.
type AccountRepository interface {
	FindByID(ctx context.Context, accountID string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.Account, error)
	FindAll(ctx context.Context) ([]models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateEmail(ctx context.Context, accountID, email string) error
	DeleteByID(ctx context.Context, accountID string) error
	// AddAssignedPatient reports false when the doctor did not match the
	// guard, either because it is missing or the patient is already assigned.
	AddAssignedPatient(ctx context.Context, doctorID, patientID string) (bool, error)
	// RemoveAssignedPatient reports false when the doctor is missing or the
	// patient is not assigned.
	RemoveAssignedPatient(ctx context.Context, doctorID, patientID string) (bool, error)
	RemovePatientFromAllDoctors(ctx context.Context, patientID string) (int64, error)
	RemoveAssignedPatients(ctx context.Context, doctorID string, patientIDs []string) (int64, error)
}
