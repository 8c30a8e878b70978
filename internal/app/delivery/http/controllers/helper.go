package controllers

import (
	"context"
	"errors"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// requestScope is what every handler needs before calling a usecase.
type requestScope struct {
	requestID string
	session   *models.Session
	ctx       context.Context
	cancel    context.CancelFunc
}

func newRequestScope(log *zap.Logger, w http.ResponseWriter, r *http.Request, requireSession bool) (*requestScope, bool) {
	requestID := utils.GetRequestID(r.Context())
	if requestID == "" {
		log.Error("Request ID missing from context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return nil, false
	}

	scope := &requestScope{requestID: requestID}
	if requireSession {
		session, err := utils.GetSessionFromContext(r.Context())
		if err != nil {
			log.Error("Session data missing from context",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(log, w, err)
			return nil, false
		}
		scope.session = session
	}

	scope.ctx, scope.cancel = context.WithTimeout(r.Context(), constvars.DefaultRequestTimeoutSec*time.Second)
	return scope, true
}

// withTimeout swaps the default request deadline for one derived from parent.
func (s *requestScope) withTimeout(parent context.Context, timeout time.Duration) {
	s.cancel()
	s.ctx, s.cancel = context.WithTimeout(parent, timeout)
}

func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) && exceptions.KindOf(err) == nil {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
