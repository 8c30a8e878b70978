package controllers

import (
	"errors"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/dto/responses"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errUnknownAction = errors.New("unknown assignment action")

type AssignmentController struct {
	Log               *zap.Logger
	AssignmentUsecase contracts.AssignmentUsecase
}

var (
	assignmentControllerInstance *AssignmentController
	onceAssignmentController     sync.Once
)

func NewAssignmentController(logger *zap.Logger, assignmentUsecase contracts.AssignmentUsecase) *AssignmentController {
	onceAssignmentController.Do(func() {
		assignmentControllerInstance = &AssignmentController{
			Log:               logger,
			AssignmentUsecase: assignmentUsecase,
		}
	})
	return assignmentControllerInstance
}

func (ctrl *AssignmentController) AssignPatient(w http.ResponseWriter, r *http.Request) {
	ctrl.mutate(w, r, requests.AssignmentActionAssign, chi.URLParam(r, constvars.URLParamDoctorID), chi.URLParam(r, constvars.URLParamPatientID))
}

func (ctrl *AssignmentController) UnassignPatient(w http.ResponseWriter, r *http.Request) {
	ctrl.mutate(w, r, requests.AssignmentActionUnassign, chi.URLParam(r, constvars.URLParamDoctorID), chi.URLParam(r, constvars.URLParamPatientID))
}

// SubmitAssignmentForm accepts the admin dashboard form body.
func (ctrl *AssignmentController) SubmitAssignmentForm(w http.ResponseWriter, r *http.Request) {
	form := new(requests.AssignmentForm)
	if err := utils.ParseJSONBody(r, form); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	ctrl.mutate(w, r, strings.ToLower(strings.TrimSpace(form.Action)), form.DoctorID, form.PatientID)
}

func (ctrl *AssignmentController) mutate(w http.ResponseWriter, r *http.Request, action, doctorID, patientID string) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	var (
		result *responses.AssignmentResult
		err    error
	)
	switch action {
	case requests.AssignmentActionAssign:
		result, err = ctrl.AssignmentUsecase.Assign(scope.ctx, scope.session, doctorID, patientID)
	case requests.AssignmentActionUnassign:
		result, err = ctrl.AssignmentUsecase.Unassign(scope.ctx, scope.session, doctorID, patientID)
	default:
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInvalidAssignmentAction(errUnknownAction, action))
		return
	}
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, assignmentMessage(result.Outcome), result)
}

func assignmentMessage(outcome string) string {
	switch models.AssignmentOutcome(outcome) {
	case models.AssignmentOutcomeAlreadyAssigned:
		return constvars.AssignPatientAlreadyAssignedMessage
	case models.AssignmentOutcomeUnassigned:
		return constvars.UnassignPatientSuccessMessage
	case models.AssignmentOutcomeNotAssigned:
		return constvars.UnassignPatientNotAssignedMessage
	}
	return constvars.AssignPatientSuccessMessage
}
