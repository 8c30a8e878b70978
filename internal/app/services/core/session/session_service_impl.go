package session

import (
	"context"
	"errors"
	"fmt"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var errSessionExpired = errors.New("session key missing from redis")

type sessionService struct {
	RedisRepository contracts.RedisRepository
	Expiration      time.Duration
	Log             *zap.Logger
}

func NewSessionService(redisRepository contracts.RedisRepository, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.SessionService {
	return &sessionService{
		RedisRepository: redisRepository,
		Expiration:      time.Duration(internalConfig.App.LoginSessionExpiredTimeInHours) * time.Hour,
		Log:             logger,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf(constvars.RedisSessionKeyFormat, sessionID)
}

func (svc *sessionService) CreateSession(ctx context.Context, session *models.Session) error {
	return svc.RedisRepository.Set(ctx, sessionKey(session.SessionID), session, svc.Expiration)
}

// GetSession returns ErrSessionNotFound once the key expired or was deleted by logout.
func (svc *sessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := svc.RedisRepository.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, exceptions.ErrSessionNotFound(errSessionExpired)
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(data), session); err != nil {
		svc.Log.Error("sessionService.GetSession error parsing session data",
			zap.String(constvars.LoggingRedisKey, sessionKey(sessionID)),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return session, nil
}

func (svc *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	return svc.RedisRepository.Delete(ctx, sessionKey(sessionID))
}
