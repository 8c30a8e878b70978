package controllers

import (
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type DashboardController struct {
	Log             *zap.Logger
	DocumentUsecase contracts.DocumentUsecase
	AccountUsecase  contracts.AccountUsecase
}

var (
	dashboardControllerInstance *DashboardController
	onceDashboardController     sync.Once
)

func NewDashboardController(logger *zap.Logger, documentUsecase contracts.DocumentUsecase, accountUsecase contracts.AccountUsecase) *DashboardController {
	onceDashboardController.Do(func() {
		dashboardControllerInstance = &DashboardController{
			Log:             logger,
			DocumentUsecase: documentUsecase,
			AccountUsecase:  accountUsecase,
		}
	})
	return dashboardControllerInstance
}

func (ctrl *DashboardController) GetPatientDashboard(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	dashboard, err := ctrl.DocumentUsecase.GetPatientDashboard(scope.ctx, scope.session)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientDashboardSuccessMessage, dashboard)
}

func (ctrl *DashboardController) GetDoctorDashboard(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	dashboard, err := ctrl.DocumentUsecase.GetDoctorDashboard(scope.ctx, scope.session)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDoctorDashboardSuccessMessage, dashboard)
}

func (ctrl *DashboardController) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	dashboard, err := ctrl.AccountUsecase.GetAdminDashboard(scope.ctx, scope.session)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAdminDashboardSuccessMessage, dashboard)
}
