package access

import (
	"context"
	"errors"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/app/services/shared/audit"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var errDenied = errors.New("authorization denied")

// Guard ties session resolution to the authorizer so every usecase decides on
// freshly read state and reports rejections the same way.
type Guard struct {
	Accounts   contracts.AccountRepository
	Authorizer contracts.Authorizer
	Audit      contracts.AuditPublisher
	Log        *zap.Logger
}

func NewGuard(accounts contracts.AccountRepository, authorizer contracts.Authorizer, auditPublisher contracts.AuditPublisher, logger *zap.Logger) *Guard {
	return &Guard{
		Accounts:   accounts,
		Authorizer: authorizer,
		Audit:      auditPublisher,
		Log:        logger,
	}
}

// Check returns the requester and the decision. The error is only set when
// the requester could not be resolved.
func (g *Guard) Check(ctx context.Context, session *models.Session, action models.Action) (*models.Account, models.Decision, error) {
	requester, err := ResolveRequester(ctx, g.Accounts, session)
	if err != nil {
		return nil, models.DecisionDeny, err
	}

	decision := g.Authorizer.Authorize(ctx, requester, action)
	if decision != models.DecisionAllow {
		g.reportRejection(ctx, requester, action, decision)
	}
	return requester, decision, nil
}

// Require is Check for actions whose rejection is a plain 403.
func (g *Guard) Require(ctx context.Context, session *models.Session, action models.Action) (*models.Account, error) {
	requester, decision, err := g.Check(ctx, session, action)
	if err != nil {
		return nil, err
	}
	if decision != models.DecisionAllow {
		return nil, exceptions.ErrAccessDenied(errDenied, action.Kind.String(), action.Object())
	}
	return requester, nil
}

func (g *Guard) reportRejection(ctx context.Context, requester *models.Account, action models.Action, decision models.Decision) {
	requestID := utils.GetRequestID(ctx)
	fields := []zap.Field{
		zap.String(constvars.LoggingAccountIDKey, requester.ID),
		zap.String(constvars.LoggingRoleKey, requester.Role.String()),
		zap.String(constvars.LoggingActionKey, action.String()),
		zap.String(constvars.LoggingDecisionKey, decision.String()),
	}

	if decision == models.DecisionNotFound {
		g.Log.Info("access.Guard target not found",
			append(fields, zap.String(constvars.LoggingRequestIDKey, requestID))...,
		)
		return
	}

	utils.LogSecurityEvent(g.Log, "access_denied", requestID, fields...)
	audit.Emit(ctx, g.Audit, g.Log, &models.AuditEvent{
		Type:      models.AuditEventAccessDenied,
		RequestID: requestID,
		ActorID:   requester.ID,
		Attributes: map[string]string{
			"action": action.String(),
			"role":   requester.Role.String(),
		},
	})
}
