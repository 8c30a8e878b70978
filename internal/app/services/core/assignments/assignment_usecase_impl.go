package assignments

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
	"medrecords-service/internal/pkg/dto/responses"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

var (
	errDoctorMissing  = errors.New("doctor account does not exist")
	errPatientMissing = errors.New("patient account does not exist")
	errGuardMissed    = errors.New("guarded update matched nothing but fresh read disagrees")
)

type assignmentUsecase struct {
	AccountRepository contracts.AccountRepository
	Locker            contracts.LockerService
	Audit             contracts.AuditPublisher
	Guard             *access.Guard
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
	// base delay between conflicting attempts, grows linearly
	Backoff time.Duration
}

func NewAssignmentUsecase(
	accountRepository contracts.AccountRepository,
	locker contracts.LockerService,
	auditPublisher contracts.AuditPublisher,
	guard *access.Guard,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AssignmentUsecase {
	return &assignmentUsecase{
		AccountRepository: accountRepository,
		Locker:            locker,
		Audit:             auditPublisher,
		Guard:             guard,
		InternalConfig:    internalConfig,
		Log:               logger,
		Backoff:           50 * time.Millisecond,
	}
}

func (uc *assignmentUsecase) Assign(ctx context.Context, actor *models.Session, doctorID, patientID string) (*responses.AssignmentResult, error) {
	return uc.mutate(ctx, actor, doctorID, patientID, true)
}

func (uc *assignmentUsecase) Unassign(ctx context.Context, actor *models.Session, doctorID, patientID string) (*responses.AssignmentResult, error) {
	return uc.mutate(ctx, actor, doctorID, patientID, false)
}

func (uc *assignmentUsecase) mutate(ctx context.Context, actor *models.Session, doctorID, patientID string, assign bool) (*responses.AssignmentResult, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assignmentUsecase.mutate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Bool("assign", assign),
	)

	admin, err := uc.Guard.Require(ctx, actor, models.AdminAction())
	if err != nil {
		return nil, err
	}

	maxAttempts := uc.InternalConfig.App.AssignmentMaxRetries
	var result *responses.AssignmentResult
	exhausted, err := utils.RetryOnConflict(ctx, maxAttempts, uc.Backoff, func(attempt int) error {
		var attemptErr error
		if assign {
			result, attemptErr = uc.assignOnce(ctx, doctorID, patientID)
		} else {
			result, attemptErr = uc.unassignOnce(ctx, doctorID, patientID)
		}
		if errors.Is(attemptErr, exceptions.ErrKindConflict) {
			uc.Log.Warn("assignmentUsecase.mutate conflicting attempt",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingDoctorIDKey, doctorID),
				zap.Int(constvars.LoggingAttemptKey, attempt),
				zap.Error(attemptErr),
			)
		}
		return attemptErr
	})
	if exhausted {
		uc.Log.Error("assignmentUsecase.mutate retries exhausted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Int(constvars.LoggingAttemptKey, maxAttempts),
		)
		return nil, exceptions.ErrAssignmentRetriesExhausted(errors.New(err.Error()), doctorID, maxAttempts)
	}
	if err != nil {
		return nil, err
	}

	if result.Outcome == string(models.AssignmentOutcomeAssigned) || result.Outcome == string(models.AssignmentOutcomeUnassigned) {
		eventType := models.AuditEventAssignmentAdded
		if !assign {
			eventType = models.AuditEventAssignmentRemoved
		}
		audit.Emit(ctx, uc.Audit, uc.Log, &models.AuditEvent{
			Type:       eventType,
			RequestID:  requestID,
			ActorID:    admin.ID,
			SubjectID:  doctorID,
			Attributes: map[string]string{"patient_id": patientID},
		})
	}

	uc.Log.Info("assignmentUsecase.mutate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingOutcomeKey, result.Outcome),
	)
	return result, nil
}

// assignOnce runs one guarded $addToSet while holding the patient lock, so a
// concurrent patient delete cannot slip between the existence check and the write.
func (uc *assignmentUsecase) assignOnce(ctx context.Context, doctorID, patientID string) (result *responses.AssignmentResult, err error) {
	key := fmt.Sprintf(constvars.LockKeyPatientFormat, patientID)
	ttl := time.Duration(uc.InternalConfig.App.PatientLockTTLInSeconds) * time.Second

	acquired, lockValue, err := uc.Locker.TryLock(ctx, key, ttl)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrPatientLockNotAcquired(nil, patientID)
	}
	defer func() {
		if unlockErr := uc.Locker.Unlock(context.WithoutCancel(ctx), key, lockValue); unlockErr != nil {
			uc.Log.Warn("assignmentUsecase.assignOnce error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingPatientIDKey, patientID),
				zap.Error(unlockErr),
			)
		}
	}()

	patient, err := uc.AccountRepository.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil || patient.Role != models.RolePatient {
		return nil, exceptions.ErrPatientNotFound(errPatientMissing, patientID)
	}

	matched, err := uc.AccountRepository.AddAssignedPatient(ctx, doctorID, patientID)
	if err != nil {
		return nil, err
	}

	doctor, err := uc.freshDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	switch {
	case matched:
		return buildResult(doctor, patientID, models.AssignmentOutcomeAssigned), nil
	case doctor.IsAssigned(patientID):
		return buildResult(doctor, patientID, models.AssignmentOutcomeAlreadyAssigned), nil
	}
	return nil, exceptions.ErrAssignmentConflict(errGuardMissed, doctorID)
}

func (uc *assignmentUsecase) unassignOnce(ctx context.Context, doctorID, patientID string) (*responses.AssignmentResult, error) {
	matched, err := uc.AccountRepository.RemoveAssignedPatient(ctx, doctorID, patientID)
	if err != nil {
		return nil, err
	}

	doctor, err := uc.freshDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	switch {
	case matched:
		return buildResult(doctor, patientID, models.AssignmentOutcomeUnassigned), nil
	case !doctor.IsAssigned(patientID):
		return buildResult(doctor, patientID, models.AssignmentOutcomeNotAssigned), nil
	}
	return nil, exceptions.ErrAssignmentConflict(errGuardMissed, doctorID)
}

// freshDoctor re-reads the doctor after a write. It also disambiguates a
// guard miss: a missing doctor is NotFound, anything else is decided by the caller.
func (uc *assignmentUsecase) freshDoctor(ctx context.Context, doctorID string) (*models.Account, error) {
	doctor, err := uc.AccountRepository.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || doctor.Role != models.RoleDoctor {
		return nil, exceptions.ErrDoctorNotFound(errDoctorMissing, doctorID)
	}
	return doctor, nil
}

func buildResult(doctor *models.Account, patientID string, outcome models.AssignmentOutcome) *responses.AssignmentResult {
	return &responses.AssignmentResult{
		DoctorID:         doctor.ID,
		PatientID:        patientID,
		Outcome:          string(outcome),
		AssignedPatients: append([]string{}, doctor.AssignedPatients...),
	}
}
