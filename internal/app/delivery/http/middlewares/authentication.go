package middlewares

import (
	"context"
	"errors"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"net/http"
	"strings"
	"time"
)

// Authenticate resolves the bearer token to the redis session and stores it
// in the request context. Role and assignments are not trusted from the
// session; usecases re-read the account.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}
		if !strings.HasPrefix(authHeader, constvars.AuthorizationBearerPrefix) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalid(nil))
			return
		}

		token := strings.TrimPrefix(authHeader, constvars.AuthorizationBearerPrefix)
		sessionID, err := utils.ParseJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			utils.LogSecurityEvent(m.Log, "invalid_token", utils.GetRequestID(r.Context()))
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), constvars.DefaultRequestTimeoutSec*time.Second)
		defer cancel()

		session, err := m.SessionService.GetSession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerDeadlineExceeded(err))
				return
			}
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx = context.WithValue(r.Context(), constvars.CONTEXT_SESSION_DATA_KEY, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
