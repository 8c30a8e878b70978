package access

import (
	"context"
	"errors"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
)

var errRequesterGone = errors.New("session account no longer exists")

// ResolveRequester re-reads the account behind a session. Nothing is cached,
// so a revoked assignment or a deleted account takes effect on the next request.
func ResolveRequester(ctx context.Context, repo contracts.AccountRepository, session *models.Session) (*models.Account, error) {
	if session == nil {
		return nil, exceptions.ErrMissingSessionData(errors.New(constvars.ErrDevMissingSessionData))
	}

	account, err := repo.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, exceptions.ErrSessionNotFound(errRequesterGone)
	}
	return account, nil
}
