package controllers

import (
	"errors"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/requests"
	"medrecords-service/internal/pkg/exceptions"
	"medrecords-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errMissingFile = errors.New("multipart field 'file' is missing")

type DocumentController struct {
	Log             *zap.Logger
	DocumentUsecase contracts.DocumentUsecase
	// in-memory part of a multipart upload, the rest spills to disk
	MultipartMemory int64
	// bounds the whole download including the body stream
	DownloadTimeout time.Duration
}

var (
	documentControllerInstance *DocumentController
	onceDocumentController     sync.Once
)

func NewDocumentController(logger *zap.Logger, documentUsecase contracts.DocumentUsecase, multipartMemory int64, downloadTimeout time.Duration) *DocumentController {
	onceDocumentController.Do(func() {
		documentControllerInstance = &DocumentController{
			Log:             logger,
			DocumentUsecase: documentUsecase,
			MultipartMemory: multipartMemory,
			DownloadTimeout: downloadTimeout,
		}
	})
	return documentControllerInstance
}

func (ctrl *DocumentController) GetDocument(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	document, err := ctrl.DocumentUsecase.GetDocument(scope.ctx, scope.session, chi.URLParam(r, constvars.URLParamDocumentID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDocumentSuccessMessage, document)
}

func (ctrl *DocumentController) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	downloadTimeout := ctrl.DownloadTimeout
	if downloadTimeout <= 0 {
		downloadTimeout = constvars.DefaultDownloadTimeoutSec * time.Second
	}
	scope.withTimeout(r.Context(), downloadTimeout)
	defer scope.cancel()

	content, err := ctrl.DocumentUsecase.DownloadDocument(scope.ctx, scope.session, chi.URLParam(r, constvars.URLParamDocumentID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildFileResponse(ctrl.Log, w, content)
}

func (ctrl *DocumentController) ListPatientDocuments(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	documents, err := ctrl.DocumentUsecase.ListPatientDocuments(scope.ctx, scope.session, chi.URLParam(r, constvars.URLParamPatientID))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientDocumentsSuccessMessage, documents)
}

func (ctrl *DocumentController) UploadDocument(w http.ResponseWriter, r *http.Request) {
	scope, ok := newRequestScope(ctrl.Log, w, r, true)
	if !ok {
		return
	}
	defer scope.cancel()

	if err := r.ParseMultipartForm(ctrl.MultipartMemory); err != nil {
		ctrl.Log.Error("DocumentController.UploadDocument error parsing multipart form",
			zap.String(constvars.LoggingRequestIDKey, scope.requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(constvars.FormFieldFile)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(errMissingFile))
		return
	}
	defer file.Close()

	document, err := ctrl.DocumentUsecase.UploadDocument(scope.ctx, scope.session, &requests.UploadDocument{
		PatientID:   chi.URLParam(r, constvars.URLParamPatientID),
		FileName:    header.Filename,
		ContentType: header.Header.Get(constvars.HeaderContentType),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.UploadDocumentSuccessMessage, document)
}
