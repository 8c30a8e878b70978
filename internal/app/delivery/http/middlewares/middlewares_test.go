package middlewares

import (
	"context"
	"errors"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/app/contracts/contractstest"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-secret"

func newTestMiddlewares(sessions *contractstest.MockSessionService) *Middlewares {
	return NewMiddlewares(zap.NewNop(), sessions, &config.InternalConfig{
		App: config.App{RequestBodyLimitInMegabyte: 1},
		JWT: config.JWT{Secret: testSecret},
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddlewares(nil)

	t.Run("generates id when absent", func(t *testing.T) {
		var seen string
		handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = utils.GetRequestID(r.Context())
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, strings.HasPrefix(seen, constvars.REQUEST_ID_PREFIX))
		assert.Equal(t, seen, rec.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("keeps client id", func(t *testing.T) {
		var seen string
		var isClient bool
		handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = utils.GetRequestID(r.Context())
			isClient, _ = r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-123")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "client-123", seen)
		assert.True(t, isClient)
	})
}

func TestAuthenticate(t *testing.T) {
	reached := func(called *bool, seen **models.Session) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = true
			*seen, _ = utils.GetSessionFromContext(r.Context())
		})
	}

	t.Run("valid token loads session", func(t *testing.T) {
		sessions := new(contractstest.MockSessionService)
		session := &models.Session{SessionID: "s1", AccountID: "d1", Role: models.RoleDoctor}
		sessions.On("GetSession", mock.Anything, "s1").Return(session, nil)
		token, err := utils.GenerateSessionJWT("s1", testSecret, 1)
		require.NoError(t, err)

		var called bool
		var seen *models.Session
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		newTestMiddlewares(sessions).Authenticate(reached(&called, &seen)).ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, session, seen)
	})

	t.Run("missing header", func(t *testing.T) {
		var called bool
		var seen *models.Session
		rec := httptest.NewRecorder()
		newTestMiddlewares(nil).Authenticate(reached(&called, &seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		token, err := utils.GenerateSessionJWT("s1", "other-secret", 1)
		require.NoError(t, err)

		var called bool
		var seen *models.Session
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		newTestMiddlewares(nil).Authenticate(reached(&called, &seen)).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logged out session", func(t *testing.T) {
		sessions := new(contractstest.MockSessionService)
		sessions.On("GetSession", mock.Anything, "s1").Return(nil, exceptions.ErrSessionNotFound(errors.New("gone")))
		token, err := utils.GenerateSessionJWT("s1", testSecret, 1)
		require.NoError(t, err)

		var called bool
		var seen *models.Session
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		newTestMiddlewares(sessions).Authenticate(reached(&called, &seen)).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	m := newTestMiddlewares(nil)
	handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
