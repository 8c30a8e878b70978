package access

import (
	"context"
	"fmt"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/utils"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

const (
	actView   = "view"
	actManage = "manage"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// rolePolicies is the capability table. It only says which role may attempt
// an action; ownership and assignment are checked afterwards.
var rolePolicies = [][]string{
	{string(models.RoleAdmin), models.AdminAction().Object(), actManage},
	{string(models.RoleAdmin), models.ViewOwnDashboard(models.RoleAdmin).Object(), actView},
	{string(models.RoleAdmin), models.ViewDocument(nil).Object(), actView},
	{string(models.RoleAdmin), models.ViewPatientDocuments(nil).Object(), actView},
	{string(models.RoleAdmin), models.ViewPatientList().Object(), actView},

	{string(models.RoleDoctor), models.ViewOwnDashboard(models.RoleDoctor).Object(), actView},
	{string(models.RoleDoctor), models.ViewDocument(nil).Object(), actView},
	{string(models.RoleDoctor), models.ViewPatientDocuments(nil).Object(), actView},
	{string(models.RoleDoctor), models.ViewPatientList().Object(), actView},

	{string(models.RolePatient), models.ViewOwnDashboard(models.RolePatient).Object(), actView},
	{string(models.RolePatient), models.ViewDocument(nil).Object(), actView},
}

type authorizer struct {
	Enforcer *casbin.SyncedEnforcer
	Log      *zap.Logger
}

func NewAuthorizer(logger *zap.Logger) (contracts.Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(rolePolicies); err != nil {
		return nil, fmt.Errorf("load role policies: %w", err)
	}

	return &authorizer{
		Enforcer: enforcer,
		Log:      logger,
	}, nil
}

// Authorize never touches a store. Callers pass the requester and target as
// freshly read; a nil document means the lookup found nothing.
func (a *authorizer) Authorize(ctx context.Context, requester *models.Account, action models.Action) models.Decision {
	decision := a.decide(requester, action)

	fields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingActionKey, action.String()),
		zap.String(constvars.LoggingDecisionKey, decision.String()),
	}
	if requester != nil {
		fields = append(fields,
			zap.String(constvars.LoggingAccountIDKey, requester.ID),
			zap.String(constvars.LoggingRoleKey, requester.Role.String()),
		)
	}
	a.Log.Debug("authorizer.Authorize decided", fields...)

	return decision
}

func (a *authorizer) decide(requester *models.Account, action models.Action) models.Decision {
	if requester == nil {
		return models.DecisionDeny
	}

	// existence first, so a missing document or patient never reaches the
	// ownership checks
	if action.Kind == models.ActionViewDocument && action.Document == nil {
		return models.DecisionNotFound
	}
	if action.Kind == models.ActionViewPatientDocuments && (action.Patient == nil || action.Patient.Role != models.RolePatient) {
		return models.DecisionNotFound
	}

	act := actView
	if action.Kind == models.ActionAdmin {
		act = actManage
	}
	allowed, err := a.Enforcer.Enforce(requester.Role.String(), action.Object(), act)
	if err != nil {
		a.Log.Error("authorizer.decide error calling Enforcer.Enforce",
			zap.String(constvars.LoggingActionKey, action.String()),
			zap.Error(err),
		)
		return models.DecisionDeny
	}
	if !allowed {
		return models.DecisionDeny
	}

	switch action.Kind {
	case models.ActionViewDocument:
		return relationship(requester, action.Document.PatientID)
	case models.ActionViewPatientDocuments:
		return relationship(requester, action.Patient.ID)
	case models.ActionAdmin, models.ActionViewOwnDashboard, models.ActionViewPatientList:
		return models.DecisionAllow
	}
	return models.DecisionDeny
}

// relationship decides whether requester may see data owned by patientID.
func relationship(requester *models.Account, patientID string) models.Decision {
	switch requester.Role {
	case models.RoleAdmin:
		return models.DecisionAllow
	case models.RolePatient:
		if patientID != "" && requester.ID == patientID {
			return models.DecisionAllow
		}
	case models.RoleDoctor:
		if requester.IsAssigned(patientID) {
			return models.DecisionAllow
		}
	}
	return models.DecisionDeny
}
