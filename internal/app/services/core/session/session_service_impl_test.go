package session

import (
	"context"
	"errors"
	"medrecords-service/internal/app/contracts/contractstest"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessionService(repo *contractstest.MockRedisRepository) *sessionService {
	return &sessionService{RedisRepository: repo, Expiration: 24 * time.Hour, Log: zap.NewNop()}
}

func TestSessionService_CreateSession(t *testing.T) {
	ctx := context.Background()
	repo := new(contractstest.MockRedisRepository)
	session := &models.Session{SessionID: "s1", AccountID: "p1", Role: models.RolePatient}
	repo.On("Set", ctx, "session:s1", session, 24*time.Hour).Return(nil)

	require.NoError(t, newTestSessionService(repo).CreateSession(ctx, session))
	repo.AssertExpectations(t)
}

func TestSessionService_GetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes stored session", func(t *testing.T) {
		repo := new(contractstest.MockRedisRepository)
		repo.On("Get", ctx, "session:s1").Return(`{"session_id":"s1","account_id":"d1","email":"doc@clinic.test","role":"doctor"}`, nil)

		session, err := newTestSessionService(repo).GetSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "d1", session.AccountID)
		assert.Equal(t, models.RoleDoctor, session.Role)
	})

	t.Run("expired session is unauthorized", func(t *testing.T) {
		repo := new(contractstest.MockRedisRepository)
		repo.On("Get", ctx, "session:gone").Return("", nil)

		_, err := newTestSessionService(repo).GetSession(ctx, "gone")
		assert.ErrorIs(t, err, exceptions.ErrKindUnauthorized)
	})

	t.Run("redis failure propagates", func(t *testing.T) {
		repo := new(contractstest.MockRedisRepository)
		repo.On("Get", ctx, "session:s1").Return("", exceptions.ErrRedisGet(errors.New("conn refused")))

		_, err := newTestSessionService(repo).GetSession(ctx, "s1")
		assert.ErrorIs(t, err, exceptions.ErrKindUpstreamUnavailable)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		repo := new(contractstest.MockRedisRepository)
		repo.On("Get", ctx, "session:s1").Return("{not json", nil)

		_, err := newTestSessionService(repo).GetSession(ctx, "s1")
		assert.Error(t, err)
	})
}

func TestSessionService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	repo := new(contractstest.MockRedisRepository)
	repo.On("Delete", ctx, "session:s1").Return(nil)

	require.NoError(t, newTestSessionService(repo).DeleteSession(ctx, "s1"))
	repo.AssertExpectations(t)
}
