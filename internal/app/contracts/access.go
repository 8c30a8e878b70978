package contracts

import (
	"context"
	"medrecords-service/internal/app/models"
)

type Authorizer interface {
	Authorize(ctx context.Context, requester *models.Account, action models.Action) models.Decision
}
