package contractstest

import (
	"context"
	"errors"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/exceptions"
	"sort"
	"sync"
	"time"
)

// AccountStore mimics the mongo repository, including the guarded
// $addToSet/$pull semantics, behind a single mutex.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account

	// AfterGuardMiss runs after a guarded update matched nothing and before
	// the caller gets the result, letting tests interleave another writer.
	AfterGuardMiss func(doctorID, patientID string)
	// Errors forces a method, keyed by name, to fail.
	Errors map[string]error
}

func NewAccountStore(accounts ...models.Account) *AccountStore {
	store := &AccountStore{accounts: map[string]*models.Account{}, Errors: map[string]error{}}
	for i := range accounts {
		account := accounts[i]
		if account.Role == models.RoleDoctor && account.AssignedPatients == nil {
			account.AssignedPatients = []string{}
		}
		store.accounts[account.ID] = &account
	}
	return store
}

func (s *AccountStore) fail(method string) error {
	if err, ok := s.Errors[method]; ok && err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// Snapshot returns a copy of the stored account, or nil.
func (s *AccountStore) Snapshot(accountID string) *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.accounts[accountID])
}

func clone(account *models.Account) *models.Account {
	if account == nil {
		return nil
	}
	copied := *account
	if account.AssignedPatients != nil {
		copied.AssignedPatients = append([]string{}, account.AssignedPatients...)
	}
	return &copied
}

func (s *AccountStore) FindByID(ctx context.Context, accountID string) (*models.Account, error) {
	if err := s.fail("FindByID"); err != nil {
		return nil, err
	}
	return s.Snapshot(accountID), nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if err := s.fail("FindByEmail"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Email == email {
			return clone(account), nil
		}
	}
	return nil, nil
}

func (s *AccountStore) list(match func(*models.Account) bool) []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]models.Account, 0)
	for _, account := range s.accounts {
		if match(account) {
			result = append(result, *clone(account))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result
}

func (s *AccountStore) FindByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	if err := s.fail("FindByRole"); err != nil {
		return nil, err
	}
	return s.list(func(a *models.Account) bool { return a.Role == role }), nil
}

func (s *AccountStore) FindAll(ctx context.Context) ([]models.Account, error) {
	if err := s.fail("FindAll"); err != nil {
		return nil, err
	}
	return s.list(func(*models.Account) bool { return true }), nil
}

func (s *AccountStore) Create(ctx context.Context, account *models.Account) error {
	if err := s.fail("Create"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.ID]; exists {
		return exceptions.ErrMongoDBInsertDocument(errors.New("duplicate key"))
	}
	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now
	if account.Role == models.RoleDoctor && account.AssignedPatients == nil {
		account.AssignedPatients = []string{}
	}
	s.accounts[account.ID] = clone(account)
	return nil
}

func (s *AccountStore) UpdateEmail(ctx context.Context, accountID, email string) error {
	if err := s.fail("UpdateEmail"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[accountID]; ok {
		account.Email = email
		account.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (s *AccountStore) DeleteByID(ctx context.Context, accountID string) error {
	if err := s.fail("DeleteByID"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, accountID)
	return nil
}

func (s *AccountStore) AddAssignedPatient(ctx context.Context, doctorID, patientID string) (bool, error) {
	if err := s.fail("AddAssignedPatient"); err != nil {
		return false, err
	}
	s.mu.Lock()
	doctor, ok := s.accounts[doctorID]
	matched := ok && doctor.Role == models.RoleDoctor && !doctor.IsAssigned(patientID)
	if matched {
		doctor.AssignedPatients = append(doctor.AssignedPatients, patientID)
	}
	s.mu.Unlock()

	if !matched && s.AfterGuardMiss != nil {
		s.AfterGuardMiss(doctorID, patientID)
	}
	return matched, nil
}

func (s *AccountStore) RemoveAssignedPatient(ctx context.Context, doctorID, patientID string) (bool, error) {
	if err := s.fail("RemoveAssignedPatient"); err != nil {
		return false, err
	}
	s.mu.Lock()
	doctor, ok := s.accounts[doctorID]
	matched := ok && doctor.Role == models.RoleDoctor && doctor.IsAssigned(patientID)
	if matched {
		doctor.AssignedPatients = without(doctor.AssignedPatients, patientID)
	}
	s.mu.Unlock()

	if !matched && s.AfterGuardMiss != nil {
		s.AfterGuardMiss(doctorID, patientID)
	}
	return matched, nil
}

func (s *AccountStore) RemovePatientFromAllDoctors(ctx context.Context, patientID string) (int64, error) {
	if err := s.fail("RemovePatientFromAllDoctors"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var modified int64
	for _, account := range s.accounts {
		if account.Role == models.RoleDoctor && account.IsAssigned(patientID) {
			account.AssignedPatients = without(account.AssignedPatients, patientID)
			modified++
		}
	}
	return modified, nil
}

func (s *AccountStore) RemoveAssignedPatients(ctx context.Context, doctorID string, patientIDs []string) (int64, error) {
	if err := s.fail("RemoveAssignedPatients"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doctor, ok := s.accounts[doctorID]
	if !ok || doctor.Role != models.RoleDoctor {
		return 0, nil
	}
	before := len(doctor.AssignedPatients)
	for _, id := range patientIDs {
		doctor.AssignedPatients = without(doctor.AssignedPatients, id)
	}
	if before == len(doctor.AssignedPatients) {
		return 0, nil
	}
	return 1, nil
}

// ForceAssign writes the set directly, bypassing every guard.
func (s *AccountStore) ForceAssign(doctorID string, patientIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doctor, ok := s.accounts[doctorID]; ok {
		doctor.AssignedPatients = append([]string{}, patientIDs...)
	}
}

func without(ids []string, id string) []string {
	result := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			result = append(result, existing)
		}
	}
	return result
}
