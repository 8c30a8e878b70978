package contracts

import (
	"context"
	"medrecords-service/internal/app/models"
)

type SessionService interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
