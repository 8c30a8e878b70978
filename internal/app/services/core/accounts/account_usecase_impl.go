package accounts

import (
	"context"
	"errors"
	"fmt"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/app/services/core/access"
	"medrecords-service/internal/app/services/shared/audit"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/dto/responses"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const lockRetryBackoff = 50 * time.Millisecond

var errAccountMissing = errors.New("account does not exist")

type accountUsecase struct {
	AccountRepository contracts.AccountRepository
	IdentityDirectory contracts.IdentityDirectory
	Locker            contracts.LockerService
	Audit             contracts.AuditPublisher
	Guard             *access.Guard
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
	// paces per-doctor writes of the delete cascade
	cascadeLimiter *rate.Limiter
}

func NewAccountUsecase(
	accountRepository contracts.AccountRepository,
	identityDirectory contracts.IdentityDirectory,
	locker contracts.LockerService,
	auditPublisher contracts.AuditPublisher,
	guard *access.Guard,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AccountUsecase {
	writesPerSecond := internalConfig.App.CascadeWritesPerSecond
	if writesPerSecond <= 0 {
		writesPerSecond = 20
	}
	return &accountUsecase{
		AccountRepository: accountRepository,
		IdentityDirectory: identityDirectory,
		Locker:            locker,
		Audit:             auditPublisher,
		Guard:             guard,
		InternalConfig:    internalConfig,
		Log:               logger,
		cascadeLimiter:    rate.NewLimiter(rate.Limit(writesPerSecond), 1),
	}
}

func (uc *accountUsecase) CreateAccount(ctx context.Context, actor *models.Session, request *requests.CreateAccount) (*responses.Account, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("accountUsecase.CreateAccount called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, request.Email),
	)

	admin, err := uc.Guard.Require(ctx, actor, models.AdminAction())
	if err != nil {
		return nil, err
	}

	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	role, err := models.ParseRole(request.Role)
	if err != nil {
		return nil, err
	}

	existing, err := uc.AccountRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		uc.Log.Error("accountUsecase.CreateAccount error calling AccountRepository.FindByEmail",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrEmailAlreadyExist(nil)
	}

	identityID, err := uc.IdentityDirectory.Create(ctx, request.Email, request.Password)
	if err != nil {
		uc.Log.Error("accountUsecase.CreateAccount error calling IdentityDirectory.Create",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	account := &models.Account{
		ID:    identityID,
		Email: request.Email,
		Role:  role,
	}
	if err := uc.AccountRepository.Create(ctx, account); err != nil {
		return nil, uc.compensateIdentity(ctx, identityID, err)
	}

	audit.Emit(ctx, uc.Audit, uc.Log, &models.AuditEvent{
		Type:       models.AuditEventAccountCreated,
		RequestID:  requestID,
		ActorID:    admin.ID,
		SubjectID:  account.ID,
		Attributes: map[string]string{"role": role.String()},
	})

	uc.Log.Info("accountUsecase.CreateAccount succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, account.ID),
		zap.String(constvars.LoggingRoleKey, role.String()),
	)
	return toAccountResponse(account), nil
}

// compensateIdentity undoes an identity whose account record could not be
// written. When the undo fails too, the orphan is logged with both causes.
func (uc *accountUsecase) compensateIdentity(ctx context.Context, identityID string, createErr error) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Error("accountUsecase.CreateAccount error calling AccountRepository.Create, deleting identity",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, identityID),
		zap.Error(createErr),
	)

	// the request context may be what failed the write
	compensationCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constvars.DefaultRequestTimeoutSec*time.Second)
	defer cancel()

	if err := uc.IdentityDirectory.Delete(compensationCtx, identityID); err != nil {
		uc.Log.Error("accountUsecase.CreateAccount orphaned identity",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAccountIDKey, identityID),
			zap.NamedError("create_error", createErr),
			zap.NamedError("compensation_error", err),
		)
		return exceptions.ErrOrphanedIdentity(fmt.Errorf("record: %v; compensation: %v", createErr, err), identityID)
	}
	return createErr
}

func (uc *accountUsecase) DeleteAccount(ctx context.Context, actor *models.Session, accountID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("accountUsecase.DeleteAccount called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, accountID),
	)

	admin, err := uc.Guard.Require(ctx, actor, models.AdminAction())
	if err != nil {
		return err
	}

	account, err := uc.AccountRepository.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return exceptions.ErrAccountNotFound(errAccountMissing, accountID)
	}

	if account.Role == models.RolePatient {
		err = uc.withPatientLock(ctx, accountID, func() error {
			if err := uc.cascadePatientRemoval(ctx, accountID); err != nil {
				return err
			}
			return uc.deleteIdentityAndRecord(ctx, accountID)
		})
	} else {
		err = uc.deleteIdentityAndRecord(ctx, accountID)
	}
	if err != nil {
		return err
	}

	audit.Emit(ctx, uc.Audit, uc.Log, &models.AuditEvent{
		Type:       models.AuditEventAccountDeleted,
		RequestID:  requestID,
		ActorID:    admin.ID,
		SubjectID:  accountID,
		Attributes: map[string]string{"role": account.Role.String()},
	})

	uc.Log.Info("accountUsecase.DeleteAccount succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, accountID),
	)
	return nil
}

// withPatientLock runs fn while holding the per-patient lock that assignment
// also takes. Contention is retried with the same bound as assignment conflicts.
func (uc *accountUsecase) withPatientLock(ctx context.Context, patientID string, fn func() error) error {
	key := fmt.Sprintf(constvars.LockKeyPatientFormat, patientID)
	ttl := time.Duration(uc.InternalConfig.App.PatientLockTTLInSeconds) * time.Second
	var lockValue string

	exhausted, err := utils.RetryOnConflict(ctx, uc.InternalConfig.App.AssignmentMaxRetries, lockRetryBackoff, func(attempt int) error {
		acquired, value, err := uc.Locker.TryLock(ctx, key, ttl)
		if err != nil {
			return err
		}
		if !acquired {
			uc.Log.Warn("accountUsecase.withPatientLock lock busy",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingPatientIDKey, patientID),
				zap.Int(constvars.LoggingAttemptKey, attempt),
			)
			return exceptions.ErrPatientLockNotAcquired(nil, patientID)
		}
		lockValue = value
		return nil
	})
	if exhausted {
		return exceptions.ErrAssignmentRetriesExhausted(errors.New(err.Error()), patientID, uc.InternalConfig.App.AssignmentMaxRetries)
	}
	if err != nil {
		return err
	}

	defer func() {
		if err := uc.Locker.Unlock(context.WithoutCancel(ctx), key, lockValue); err != nil {
			uc.Log.Warn("accountUsecase.withPatientLock error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingPatientIDKey, patientID),
				zap.Error(err),
			)
		}
	}()
	return fn()
}

// cascadePatientRemoval pulls patientID from every doctor one write at a time,
// then runs a single UpdateMany to catch anything the scan missed.
func (uc *accountUsecase) cascadePatientRemoval(ctx context.Context, patientID string) error {
	requestID := utils.GetRequestID(ctx)

	doctors, err := uc.AccountRepository.FindByRole(ctx, models.RoleDoctor)
	if err != nil {
		return err
	}

	var removed int64
	for i := range doctors {
		if !doctors[i].IsAssigned(patientID) {
			continue
		}
		if err := uc.cascadeLimiter.Wait(ctx); err != nil {
			return exceptions.ErrServerDeadlineExceeded(err)
		}
		matched, err := uc.AccountRepository.RemoveAssignedPatient(ctx, doctors[i].ID, patientID)
		if err != nil {
			uc.Log.Error("accountUsecase.cascadePatientRemoval error calling AccountRepository.RemoveAssignedPatient",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDoctorIDKey, doctors[i].ID),
				zap.Error(err),
			)
			return err
		}
		if matched {
			removed++
		}
	}

	stragglers, err := uc.AccountRepository.RemovePatientFromAllDoctors(ctx, patientID)
	if err != nil {
		return err
	}

	uc.Log.Info("accountUsecase.cascadePatientRemoval finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Int64(constvars.LoggingCountKey, removed+stragglers),
	)
	return nil
}

func (uc *accountUsecase) deleteIdentityAndRecord(ctx context.Context, accountID string) error {
	if err := uc.IdentityDirectory.Delete(ctx, accountID); err != nil && !errors.Is(err, exceptions.ErrKindNotFound) {
		return err
	}
	return uc.AccountRepository.DeleteByID(ctx, accountID)
}

func (uc *accountUsecase) ListAccounts(ctx context.Context, actor *models.Session, role string) ([]responses.Account, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("accountUsecase.ListAccounts called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRoleKey, role),
	)

	if _, err := uc.Guard.Require(ctx, actor, models.AdminAction()); err != nil {
		return nil, err
	}

	var (
		accounts []models.Account
		err      error
	)
	if role == "" {
		accounts, err = uc.AccountRepository.FindAll(ctx)
	} else {
		parsed, parseErr := models.ParseRole(role)
		if parseErr != nil {
			return nil, parseErr
		}
		accounts, err = uc.AccountRepository.FindByRole(ctx, parsed)
	}
	if err != nil {
		return nil, err
	}

	result := make([]responses.Account, 0, len(accounts))
	for i := range accounts {
		result = append(result, *toAccountResponse(&accounts[i]))
	}

	uc.Log.Info("accountUsecase.ListAccounts succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result)),
	)
	return result, nil
}

func (uc *accountUsecase) GetAccount(ctx context.Context, actor *models.Session, accountID string) (*responses.Account, error) {
	uc.Log.Info("accountUsecase.GetAccount called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingAccountIDKey, accountID),
	)

	if _, err := uc.Guard.Require(ctx, actor, models.AdminAction()); err != nil {
		return nil, err
	}

	account, err := uc.AccountRepository.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, exceptions.ErrAccountNotFound(errAccountMissing, accountID)
	}
	return toAccountResponse(account), nil
}

// UpdateAccount changes credentials in the identity directory. Role is
// immutable; an email change is mirrored to the account record.
func (uc *accountUsecase) UpdateAccount(ctx context.Context, actor *models.Session, accountID string, request *requests.UpdateAccount) (*responses.Account, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("accountUsecase.UpdateAccount called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, accountID),
	)

	if _, err := uc.Guard.Require(ctx, actor, models.AdminAction()); err != nil {
		return nil, err
	}

	if request.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*request.Email))
		request.Email = &normalized
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	account, err := uc.AccountRepository.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, exceptions.ErrAccountNotFound(errAccountMissing, accountID)
	}

	if request.Email != nil && *request.Email == account.Email {
		request.Email = nil
	}
	if request.Email == nil && request.Password == nil {
		return toAccountResponse(account), nil
	}

	if request.Email != nil {
		other, err := uc.AccountRepository.FindByEmail(ctx, *request.Email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, exceptions.ErrEmailAlreadyExist(nil)
		}
	}

	if err := uc.IdentityDirectory.Update(ctx, accountID, request.Email, request.Password); err != nil {
		uc.Log.Error("accountUsecase.UpdateAccount error calling IdentityDirectory.Update",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if request.Email != nil {
		if err := uc.AccountRepository.UpdateEmail(ctx, accountID, *request.Email); err != nil {
			return nil, err
		}
		account.Email = *request.Email
	}

	uc.Log.Info("accountUsecase.UpdateAccount succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, accountID),
	)
	return toAccountResponse(account), nil
}

func (uc *accountUsecase) GetAdminDashboard(ctx context.Context, actor *models.Session) (*responses.AdminDashboard, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("accountUsecase.GetAdminDashboard called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	admin, err := uc.Guard.Require(ctx, actor, models.ViewOwnDashboard(models.RoleAdmin))
	if err != nil {
		return nil, err
	}

	accounts, err := uc.AccountRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &responses.AdminDashboard{
		Account:  *toAccountResponse(admin),
		Patients: make([]responses.Account, 0),
		Doctors:  make([]responses.Account, 0),
		Admins:   make([]responses.Account, 0),
	}
	for i := range accounts {
		switch accounts[i].Role {
		case models.RolePatient:
			dashboard.Patients = append(dashboard.Patients, *toAccountResponse(&accounts[i]))
		case models.RoleDoctor:
			dashboard.Doctors = append(dashboard.Doctors, *toAccountResponse(&accounts[i]))
		case models.RoleAdmin:
			dashboard.Admins = append(dashboard.Admins, *toAccountResponse(&accounts[i]))
		}
	}
	return dashboard, nil
}

func toAccountResponse(account *models.Account) *responses.Account {
	response := &responses.Account{
		ID:        account.ID,
		Email:     account.Email,
		Role:      account.Role.String(),
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	if account.Role == models.RoleDoctor {
		response.AssignedPatients = append([]string{}, account.AssignedPatients...)
	}
	return response
}

// ToAccountResponse is shared with the other usecases that render accounts.
func ToAccountResponse(account *models.Account) *responses.Account {
	return toAccountResponse(account)
}
