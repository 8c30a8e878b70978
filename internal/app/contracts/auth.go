package contracts

import (
	"context"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/dto/responses"
)

type AuthUsecase interface {
	Login(ctx context.Context, request *requests.Login) (*responses.Login, error)
	Logout(ctx context.Context, session *models.Session) error
}
