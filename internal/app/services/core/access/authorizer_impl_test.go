package access

import (
	"context"
	"fmt"
	"medrecords-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthorizer(t *testing.T) *authorizer {
	t.Helper()
	a, err := NewAuthorizer(zap.NewNop())
	require.NoError(t, err)
	return a.(*authorizer)
}

// subsets returns every subset of ids, including the empty one.
func subsets(ids []string) [][]string {
	result := [][]string{{}}
	for _, id := range ids {
		n := len(result)
		for i := 0; i < n; i++ {
			next := append(append([]string{}, result[i]...), id)
			result = append(result, next)
		}
	}
	return result
}

func TestAuthorizer_AdminAction(t *testing.T) {
	a := newTestAuthorizer(t)
	ctx := context.Background()

	for _, role := range models.Roles {
		expected := models.DecisionDeny
		if role == models.RoleAdmin {
			expected = models.DecisionAllow
		}
		requester := &models.Account{ID: "acc-" + role.String(), Role: role}
		assert.Equal(t, expected, a.Authorize(ctx, requester, models.AdminAction()), "role %s", role)
	}
}

func TestAuthorizer_ViewOwnDashboard(t *testing.T) {
	a := newTestAuthorizer(t)
	ctx := context.Background()

	for _, role := range models.Roles {
		for _, dashboard := range models.Roles {
			requester := &models.Account{ID: "acc-1", Role: role}
			decision := a.Authorize(ctx, requester, models.ViewOwnDashboard(dashboard))
			if role == dashboard {
				assert.Equal(t, models.DecisionAllow, decision, "%s on %s dashboard", role, dashboard)
			} else {
				assert.Equal(t, models.DecisionDeny, decision, "%s on %s dashboard", role, dashboard)
			}
		}
	}
}

func TestAuthorizer_ViewDocument_Patient(t *testing.T) {
	a := newTestAuthorizer(t)
	ctx := context.Background()
	patients := []string{"p1", "p2", "p3"}

	for _, requesterID := range patients {
		for _, ownerID := range patients {
			requester := &models.Account{ID: requesterID, Role: models.RolePatient}
			doc := &models.Document{ID: "doc-" + ownerID, PatientID: ownerID}

			decision := a.Authorize(ctx, requester, models.ViewDocument(doc))
			if requesterID == ownerID {
				assert.Equal(t, models.DecisionAllow, decision)
			} else {
				assert.Equal(t, models.DecisionDeny, decision, "%s must not read %s's document", requesterID, ownerID)
			}
		}
	}
}

func TestAuthorizer_ViewDocument_DoctorEveryAssignmentState(t *testing.T) {
	a := newTestAuthorizer(t)
	ctx := context.Background()
	patients := []string{"p1", "p2", "p3"}

	for _, assigned := range subsets(patients) {
		doctor := &models.Account{ID: "d1", Role: models.RoleDoctor, AssignedPatients: assigned}
		for _, owner := range append(patients, "p-unknown") {
			doc := &models.Document{ID: "doc-" + owner, PatientID: owner}
			name := fmt.Sprintf("assigned=%v owner=%s", assigned, owner)

			decision := a.Authorize(ctx, doctor, models.ViewDocument(doc))
			if doctor.IsAssigned(owner) {
				assert.Equal(t, models.DecisionAllow, decision, name)
			} else {
				assert.Equal(t, models.DecisionDeny, decision, name)
			}

			var ownerAccount *models.Account
			if owner != "p-unknown" {
				ownerAccount = &models.Account{ID: owner, Role: models.RolePatient}
			}
			docsDecision := a.Authorize(ctx, doctor, models.ViewPatientDocuments(ownerAccount))
			if ownerAccount == nil {
				assert.Equal(t, models.DecisionNotFound, docsDecision, name)
			} else {
				assert.Equal(t, decision, docsDecision, "patient documents must follow the same rule: "+name)
			}
		}
	}
}

func TestAuthorizer_ViewDocument_AdminSeesEverything(t *testing.T) {
	a := newTestAuthorizer(t)
	admin := &models.Account{ID: "a1", Role: models.RoleAdmin}

	decision := a.Authorize(context.Background(), admin, models.ViewDocument(&models.Document{ID: "doc", PatientID: "anyone"}))
	assert.Equal(t, models.DecisionAllow, decision)
	assert.Equal(t, models.DecisionAllow, a.Authorize(context.Background(), admin, models.ViewPatientDocuments(&models.Account{ID: "anyone", Role: models.RolePatient})))
}

func TestAuthorizer_MissingDocumentIsNotFoundForEveryRole(t *testing.T) {
	a := newTestAuthorizer(t)

	for _, role := range models.Roles {
		requester := &models.Account{ID: "acc", Role: role, AssignedPatients: []string{"p1"}}
		assert.Equal(t, models.DecisionNotFound, a.Authorize(context.Background(), requester, models.ViewDocument(nil)), "role %s", role)
	}
}

func TestAuthorizer_ViewPatientDocuments_PatientDenied(t *testing.T) {
	a := newTestAuthorizer(t)
	patient := &models.Account{ID: "p1", Role: models.RolePatient}

	// patients use their own dashboard, never the per-patient listing
	assert.Equal(t, models.DecisionDeny, a.Authorize(context.Background(), patient, models.ViewPatientDocuments(patient)))
}

func TestAuthorizer_ViewPatientDocuments_MissingPatientIsNotFound(t *testing.T) {
	a := newTestAuthorizer(t)
	ctx := context.Background()
	doctorAccount := &models.Account{ID: "d2", Role: models.RoleDoctor}

	for _, role := range models.Roles {
		requester := &models.Account{ID: "acc", Role: role, AssignedPatients: []string{"gone", "d2"}}
		assert.Equal(t, models.DecisionNotFound, a.Authorize(ctx, requester, models.ViewPatientDocuments(nil)), "role %s", role)
		assert.Equal(t, models.DecisionNotFound, a.Authorize(ctx, requester, models.ViewPatientDocuments(doctorAccount)), "non-patient target for role %s", role)
	}
}

func TestAuthorizer_ViewPatientList(t *testing.T) {
	a := newTestAuthorizer(t)
	ctx := context.Background()

	assert.Equal(t, models.DecisionAllow, a.Authorize(ctx, &models.Account{ID: "d", Role: models.RoleDoctor}, models.ViewPatientList()))
	assert.Equal(t, models.DecisionAllow, a.Authorize(ctx, &models.Account{ID: "a", Role: models.RoleAdmin}, models.ViewPatientList()))
	assert.Equal(t, models.DecisionDeny, a.Authorize(ctx, &models.Account{ID: "p", Role: models.RolePatient}, models.ViewPatientList()))
}

func TestAuthorizer_UnknownRoleAndNilRequester(t *testing.T) {
	a := newTestAuthorizer(t)
	ctx := context.Background()
	doc := &models.Document{ID: "doc", PatientID: "p1"}

	assert.Equal(t, models.DecisionDeny, a.Authorize(ctx, nil, models.ViewDocument(doc)))
	assert.Equal(t, models.DecisionDeny, a.Authorize(ctx, &models.Account{ID: "p1", Role: models.Role("nurse")}, models.ViewDocument(doc)))
	assert.Equal(t, models.DecisionDeny, a.Authorize(ctx, &models.Account{ID: "x", Role: models.Role("")}, models.AdminAction()))
}
