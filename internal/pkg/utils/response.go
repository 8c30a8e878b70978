package utils

import (
	"errors"
	"fmt"
	"io"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/responses"
	"medrecords-service/internal/pkg/exceptions"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	response := responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	}
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// BuildFileResponse streams content as an attachment. The reader is closed
// once everything has been copied or the client went away.
func BuildFileResponse(log *zap.Logger, w http.ResponseWriter, content *responses.DocumentContent) {
	defer content.Reader.Close()

	contentType := content.ContentType
	if contentType == "" {
		contentType = constvars.BlobDefaultContentType
	}
	w.Header().Set(constvars.HeaderContentType, contentType)
	w.Header().Set(constvars.HeaderContentDisposition, fmt.Sprintf(constvars.HeaderContentDispositionAttachmentFormat, content.FileName))
	if content.Size > 0 {
		w.Header().Set(constvars.HeaderContentLength, strconv.FormatInt(content.Size, 10))
	}
	w.WriteHeader(constvars.StatusOK)

	if _, err := io.Copy(w, content.Reader); err != nil {
		log.Error("utils.BuildFileResponse error streaming document",
			zap.String(constvars.LoggingDocumentIDKey, content.DocumentID),
			zap.Error(err),
		)
	}
}

func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	code := constvars.StatusInternalServerError
	clientMessage := constvars.ErrClientSomethingWrongWithApplication

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		code = customErr.StatusCode
		clientMessage = customErr.ClientMessage
		kind := constvars.ResponseUnknown
		if customErr.Kind != nil {
			kind = customErr.Kind.Error()
		}
		for _, location := range customErr.Locations {
			log.Error(customErr.DevMessage,
				zap.String(constvars.LoggingErrorKindKey, kind),
				zap.String("file", location.File),
				zap.Int("line", location.Line),
				zap.String("function_name", location.FunctionName),
			)
		}
	} else {
		log.Error(err.Error())
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	response := exceptions.CustomError{
		StatusCode:    code,
		Success:       false,
		ClientMessage: clientMessage,
	}

	appEnvironment := GetEnvString("APP_ENV", "development")
	if customErr != nil && appEnvironment != "production" {
		response.DevMessage = customErr.DevMessage
		response.Locations = customErr.Locations
	}
	json.NewEncoder(w).Encode(response)
}
