package assignments

import (
	"context"
	"fmt"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/contracts/contractstest"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/app/services/core/access"
	"medrecords-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	admin   = models.Account{ID: "a1", Email: "admin@clinic.test", Role: models.RoleAdmin}
	doctor  = models.Account{ID: "d1", Email: "doc@clinic.test", Role: models.RoleDoctor}
	patient = models.Account{ID: "p1", Email: "p1@clinic.test", Role: models.RolePatient}
	other   = models.Account{ID: "p2", Email: "p2@clinic.test", Role: models.RolePatient}
)

func adminSession() *models.Session {
	return &models.Session{SessionID: "s1", AccountID: admin.ID, Role: models.RoleAdmin}
}

type fixture struct {
	usecase  *assignmentUsecase
	accounts *contractstest.AccountStore
	locker   *contractstest.Locker
	audit    *contractstest.AuditRecorder
}

func newFixture(t *testing.T, repo contracts.AccountRepository, store *contractstest.AccountStore) *fixture {
	t.Helper()
	authorizer, err := access.NewAuthorizer(zap.NewNop())
	require.NoError(t, err)

	f := &fixture{accounts: store, locker: contractstest.NewLocker(), audit: &contractstest.AuditRecorder{}}
	internalConfig := &config.InternalConfig{App: config.App{AssignmentMaxRetries: 3, PatientLockTTLInSeconds: 30}}
	guard := access.NewGuard(repo, authorizer, f.audit, zap.NewNop())
	f.usecase = NewAssignmentUsecase(repo, f.locker, f.audit, guard, internalConfig, zap.NewNop()).(*assignmentUsecase)
	f.usecase.Backoff = time.Millisecond
	return f
}

func defaultFixture(t *testing.T, accounts ...models.Account) *fixture {
	store := contractstest.NewAccountStore(accounts...)
	return newFixture(t, store, store)
}

func TestAssignmentUsecase_AssignThenUnassign(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t, admin, doctor, patient)

	result, err := f.usecase.Assign(ctx, adminSession(), doctor.ID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.AssignmentOutcomeAssigned), result.Outcome)
	assert.Equal(t, []string{patient.ID}, result.AssignedPatients)

	result, err = f.usecase.Assign(ctx, adminSession(), doctor.ID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.AssignmentOutcomeAlreadyAssigned), result.Outcome)
	assert.Equal(t, []string{patient.ID}, f.accounts.Snapshot(doctor.ID).AssignedPatients)

	result, err = f.usecase.Unassign(ctx, adminSession(), doctor.ID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.AssignmentOutcomeUnassigned), result.Outcome)
	assert.Empty(t, result.AssignedPatients)

	result, err = f.usecase.Unassign(ctx, adminSession(), doctor.ID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.AssignmentOutcomeNotAssigned), result.Outcome)

	assert.Equal(t, []models.AuditEventType{models.AuditEventAssignmentAdded, models.AuditEventAssignmentRemoved}, f.audit.Types())
	assert.False(t, f.locker.Held("lock:patient:"+patient.ID))
}

func TestAssignmentUsecase_NotFound(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t, admin, doctor, patient)

	_, err := f.usecase.Assign(ctx, adminSession(), "ghost", patient.ID)
	assert.ErrorIs(t, err, exceptions.ErrKindNotFound)

	_, err = f.usecase.Assign(ctx, adminSession(), patient.ID, patient.ID)
	assert.ErrorIs(t, err, exceptions.ErrKindNotFound)

	_, err = f.usecase.Assign(ctx, adminSession(), doctor.ID, "ghost")
	assert.ErrorIs(t, err, exceptions.ErrKindNotFound)
	assert.Empty(t, f.accounts.Snapshot(doctor.ID).AssignedPatients)

	_, err = f.usecase.Unassign(ctx, adminSession(), "ghost", patient.ID)
	assert.ErrorIs(t, err, exceptions.ErrKindNotFound)
}

func TestAssignmentUsecase_UnassignStrayPatient(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t, admin, doctor)
	f.accounts.ForceAssign(doctor.ID, "deleted-patient")

	result, err := f.usecase.Unassign(ctx, adminSession(), doctor.ID, "deleted-patient")
	require.NoError(t, err)
	assert.Equal(t, string(models.AssignmentOutcomeUnassigned), result.Outcome)
}

func TestAssignmentUsecase_RequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t, admin, doctor, patient)

	for _, session := range []*models.Session{
		{AccountID: doctor.ID, Role: models.RoleDoctor},
		{AccountID: patient.ID, Role: models.RolePatient},
	} {
		_, err := f.usecase.Assign(ctx, session, doctor.ID, patient.ID)
		assert.ErrorIs(t, err, exceptions.ErrKindAccessDenied)
		_, err = f.usecase.Unassign(ctx, session, doctor.ID, patient.ID)
		assert.ErrorIs(t, err, exceptions.ErrKindAccessDenied)
	}
	assert.Empty(t, f.accounts.Snapshot(doctor.ID).AssignedPatients)
}

// Two admins working on the same doctor must never lose each other's writes.
func TestAssignmentUsecase_ConcurrentAssignsKeepEveryPatient(t *testing.T) {
	ctx := context.Background()
	accounts := []models.Account{admin, doctor}
	for i := 0; i < 20; i++ {
		accounts = append(accounts, models.Account{ID: fmt.Sprintf("p%02d", i), Email: fmt.Sprintf("p%02d@clinic.test", i), Role: models.RolePatient})
	}
	f := defaultFixture(t, accounts...)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.usecase.Assign(ctx, adminSession(), doctor.ID, id)
			assert.NoError(t, err)
		}(fmt.Sprintf("p%02d", i))
	}
	wg.Wait()

	assert.Len(t, f.accounts.Snapshot(doctor.ID).AssignedPatients, 20)
}

func TestAssignmentUsecase_ConcurrentAssignAndUnassign(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t, admin, doctor, patient, other)
	f.accounts.ForceAssign(doctor.ID, patient.ID)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.usecase.Assign(ctx, adminSession(), doctor.ID, other.ID)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := f.usecase.Unassign(ctx, adminSession(), doctor.ID, patient.ID)
		assert.NoError(t, err)
	}()
	wg.Wait()

	assert.Equal(t, []string{other.ID}, f.accounts.Snapshot(doctor.ID).AssignedPatients)
}

func TestAssignmentUsecase_GuardMissRetried(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t, admin, doctor, patient)
	f.accounts.ForceAssign(doctor.ID, patient.ID)

	// another admin unassigns between our guarded write and the fresh read
	var once sync.Once
	f.accounts.AfterGuardMiss = func(doctorID, patientID string) {
		once.Do(func() { f.accounts.ForceAssign(doctorID) })
	}

	result, err := f.usecase.Assign(ctx, adminSession(), doctor.ID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.AssignmentOutcomeAssigned), result.Outcome)
	assert.Equal(t, []string{patient.ID}, f.accounts.Snapshot(doctor.ID).AssignedPatients)
}

type stuckRepository struct {
	*contractstest.AccountStore
}

func (stuckRepository) AddAssignedPatient(ctx context.Context, doctorID, patientID string) (bool, error) {
	return false, nil
}

func TestAssignmentUsecase_RetriesExhausted(t *testing.T) {
	ctx := context.Background()
	store := contractstest.NewAccountStore(admin, doctor, patient)
	f := newFixture(t, stuckRepository{store}, store)

	_, err := f.usecase.Assign(ctx, adminSession(), doctor.ID, patient.ID)
	assert.ErrorIs(t, err, exceptions.ErrKindUpstreamUnavailable)
	assert.NotErrorIs(t, err, exceptions.ErrKindConflict)
	assert.Empty(t, f.audit.Types())
}

func TestAssignmentUsecase_PatientLockBusy(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t, admin, doctor, patient)
	f.locker.Denied["lock:patient:"+patient.ID] = true

	_, err := f.usecase.Assign(ctx, adminSession(), doctor.ID, patient.ID)
	assert.ErrorIs(t, err, exceptions.ErrKindUpstreamUnavailable)
	assert.Empty(t, f.accounts.Snapshot(doctor.ID).AssignedPatients)

	// unassign does not need the lock
	f.accounts.ForceAssign(doctor.ID, patient.ID)
	result, err := f.usecase.Unassign(ctx, adminSession(), doctor.ID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.AssignmentOutcomeUnassigned), result.Outcome)
}

// Walks the administrator scenario: assign, doctor sees the patient, unassign,
// doctor no longer sees it.
func TestAssignmentUsecase_AuthorizationFollowsAssignment(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t, admin, doctor, patient)
	doctorSession := &models.Session{AccountID: doctor.ID, Role: models.RoleDoctor}
	action := models.ViewPatientDocuments(&patient)

	_, decision, err := f.usecase.Guard.Check(ctx, doctorSession, action)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionDeny, decision)

	_, err = f.usecase.Assign(ctx, adminSession(), doctor.ID, patient.ID)
	require.NoError(t, err)
	_, decision, err = f.usecase.Guard.Check(ctx, doctorSession, action)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionAllow, decision)

	_, err = f.usecase.Unassign(ctx, adminSession(), doctor.ID, patient.ID)
	require.NoError(t, err)
	_, decision, err = f.usecase.Guard.Check(ctx, doctorSession, action)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionDeny, decision)
}
