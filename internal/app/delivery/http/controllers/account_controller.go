package controllers

import (
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AccountController struct {
	Log            *zap.Logger
	AccountUsecase contracts.AccountUsecase
}

var (
	accountControllerInstance *AccountController
	onceAccountController     sync.Once
)

func NewAccountController(logger *zap.Logger, accountUsecase contracts.AccountUsecase) *AccountController {
	onceAccountController.Do(func() {
		accountControllerInstance = &AccountController{
			Log:            logger,
			AccountUsecase: accountUsecase,
		}
	})
	return accountControllerInstance
}

func (ctrl *AccountController) CreateAccount(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	request := new(requests.CreateAccount)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	account, err := ctrl.AccountUsecase.CreateAccount(scope.ctx, scope.session, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateAccountSuccessMessage, account)
}

func (ctrl *AccountController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	accounts, err := ctrl.AccountUsecase.ListAccounts(scope.ctx, scope.session, r.URL.Query().Get(constvars.QueryParamRole))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAccountsSuccessMessage, accounts)
}

func (ctrl *AccountController) GetAccount(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	account, err := ctrl.AccountUsecase.GetAccount(scope.ctx, scope.session, chi.URLParam(r, constvars.URLParamAccountID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAccountSuccessMessage, account)
}

func (ctrl *AccountController) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	request := new(requests.UpdateAccount)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	account, err := ctrl.AccountUsecase.UpdateAccount(scope.ctx, scope.session, chi.URLParam(r, constvars.URLParamAccountID), request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateAccountSuccessMessage, account)
}

func (ctrl *AccountController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	if err := ctrl.AccountUsecase.DeleteAccount(scope.ctx, scope.session, chi.URLParam(r, constvars.URLParamAccountID)); err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteAccountSuccessMessage, nil)
}
