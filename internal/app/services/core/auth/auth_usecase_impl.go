package auth

import (
	"context"
	"errors"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/dto/responses"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

var errIdentityWithoutAccount = errors.New("identity has no account record")

type authUsecase struct {
	IdentityDirectory contracts.IdentityDirectory
	AccountRepository contracts.AccountRepository
	SessionService    contracts.SessionService
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

func NewAuthUsecase(
	identityDirectory contracts.IdentityDirectory,
	accountRepository contracts.AccountRepository,
	sessionService contracts.SessionService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AuthUsecase {
	return &authUsecase{
		IdentityDirectory: identityDirectory,
		AccountRepository: accountRepository,
		SessionService:    sessionService,
		InternalConfig:    internalConfig,
		Log:               logger,
	}
}

func (uc *authUsecase) Login(ctx context.Context, request *requests.Login) (*responses.Login, error) {
	requestID := utils.GetRequestID(ctx)
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	uc.Log.Info("authUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, request.Email),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	accountID, err := uc.IdentityDirectory.Authenticate(ctx, request.Email, request.Password)
	if err != nil {
		if errors.Is(err, exceptions.ErrKindUnauthorized) {
			utils.LogSecurityEvent(uc.Log, "login_failed", requestID,
				zap.String(constvars.LoggingEmailKey, request.Email),
			)
		}
		return nil, err
	}

	account, err := uc.AccountRepository.FindByID(ctx, accountID)
	if err != nil {
		uc.Log.Error("authUsecase.Login error calling AccountRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if account == nil {
		uc.Log.Error("authUsecase.Login identity without account record",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAccountIDKey, accountID),
		)
		return nil, exceptions.ErrInvalidEmailOrPassword(errIdentityWithoutAccount)
	}

	role, err := models.ParseRole(account.Role.String())
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		SessionID: utils.GenerateSessionID(),
		AccountID: account.ID,
		Email:     account.Email,
		Role:      role,
	}
	if err := uc.SessionService.CreateSession(ctx, session); err != nil {
		uc.Log.Error("authUsecase.Login error calling SessionService.CreateSession",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	token, err := utils.GenerateSessionJWT(session.SessionID, uc.InternalConfig.JWT.Secret, uc.InternalConfig.App.LoginSessionExpiredTimeInHours)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("authUsecase.Login succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, account.ID),
		zap.String(constvars.LoggingRoleKey, role.String()),
	)
	return &responses.Login{
		Token:         token,
		Role:          role.String(),
		DashboardPath: role.DashboardPath(),
	}, nil
}

func (uc *authUsecase) Logout(ctx context.Context, session *models.Session) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("authUsecase.Logout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if session == nil {
		return exceptions.ErrMissingSessionData(nil)
	}

	if err := uc.SessionService.DeleteSession(ctx, session.SessionID); err != nil {
		uc.Log.Error("authUsecase.Logout error calling SessionService.DeleteSession",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("authUsecase.Logout succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAccountIDKey, session.AccountID),
	)
	return nil
}
