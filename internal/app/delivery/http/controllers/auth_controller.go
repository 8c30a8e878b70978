package controllers

import (
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AuthController struct {
	Log         *zap.Logger
	AuthUsecase contracts.AuthUsecase
}

var (
	authControllerInstance *AuthController
	onceAuthController     sync.Once
)

func NewAuthController(logger *zap.Logger, authUsecase contracts.AuthUsecase) *AuthController {
	onceAuthController.Do(func() {
		authControllerInstance = &AuthController{
			Log:         logger,
			AuthUsecase: authUsecase,
		}
	})
	return authControllerInstance
}

func (ctrl *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, false)
	if !ok {
		return
	}
	defer scope.cancel()

	// validated in the usecase, after the email is normalized
	request := new(requests.Login)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("AuthController.Login error parsing body",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	response, err := ctrl.AuthUsecase.Login(scope.ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LoginSuccessMessage, response)
}

func (ctrl *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	if err := ctrl.AuthUsecase.Logout(scope.ctx, scope.session); err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LogoutSuccessMessage, nil)
}
