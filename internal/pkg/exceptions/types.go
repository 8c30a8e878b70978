package exceptions

import (
	"fmt"
	"medrecords-service/internal/pkg/constvars"
)

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindInvalidInput, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrURLParamValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, ErrKindInvalidInput, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamValidationFailed, paramName))
	}
	ErrInvalidRole = func(err error, role string) *CustomError {
		return BuildNewCustomError(err, ErrKindInvalidInput, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevInvalidRole, role))
	}
	ErrInvalidAssignmentAction = func(err error, action string) *CustomError {
		return BuildNewCustomError(err, ErrKindInvalidInput, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevInvalidAssignmentAction, action))
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindInvalidInput, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrCannotParseMultipartForm = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindInvalidInput, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseMultipartForm)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindInvalidInput, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevMissingRequestID)
	}
	ErrMissingSessionData = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUnauthorized, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevMissingSessionData)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevServerProcess)
	}

	// Access control
	ErrAccessDenied = func(err error, action, resource string) *CustomError {
		return BuildNewCustomError(err, ErrKindAccessDenied, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevAccessDenied, action, resource))
	}
	// ErrResourceUnavailable is the uniform rejection for document reads. Missing
	// and forbidden resources share status and client message; only the kind
	// and dev message tell them apart.
	ErrResourceUnavailable = func(err error, kind error, resource, id string) *CustomError {
		devMessage := fmt.Sprintf(constvars.ErrDevResourceNotFound, resource, id)
		if kind == ErrKindAccessDenied {
			devMessage = fmt.Sprintf(constvars.ErrDevAccessDenied, "read", resource+" '"+id+"'")
		}
		return BuildNewCustomError(err, kind, constvars.StatusNotFound, constvars.ErrClientResourceUnavailable, devMessage)
	}
	ErrAccountNotFound = func(err error, accountID string) *CustomError {
		return BuildNewCustomError(err, ErrKindNotFound, constvars.StatusNotFound, constvars.ErrClientAccountNotFound, fmt.Sprintf(constvars.ErrDevAccountNotFound, accountID))
	}
	ErrDoctorNotFound = func(err error, doctorID string) *CustomError {
		return BuildNewCustomError(err, ErrKindNotFound, constvars.StatusNotFound, constvars.ErrClientDoctorNotFound, fmt.Sprintf(constvars.ErrDevDoctorNotFound, doctorID))
	}
	ErrPatientNotFound = func(err error, patientID string) *CustomError {
		return BuildNewCustomError(err, ErrKindNotFound, constvars.StatusNotFound, constvars.ErrClientPatientNotFound, fmt.Sprintf(constvars.ErrDevPatientNotFound, patientID))
	}
	ErrAssignmentConflict = func(err error, doctorID string) *CustomError {
		return BuildNewCustomError(err, ErrKindConflict, constvars.StatusConflict, constvars.ErrClientConcurrentUpdate, fmt.Sprintf(constvars.ErrDevAssignmentConflict, doctorID))
	}
	ErrPatientLockNotAcquired = func(err error, patientID string) *CustomError {
		return BuildNewCustomError(err, ErrKindConflict, constvars.StatusConflict, constvars.ErrClientConcurrentUpdate, fmt.Sprintf(constvars.ErrDevPatientLockNotAcquired, patientID))
	}
	ErrAssignmentRetriesExhausted = func(err error, doctorID string, attempts int) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, fmt.Sprintf(constvars.ErrDevAssignmentRetriesExhausted, doctorID, attempts))
	}
	ErrOrphanedIdentity = func(err error, identityID string) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, fmt.Sprintf(constvars.ErrDevOrphanedIdentity, identityID))
	}

	// Auth
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUnauthorized, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalid = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUnauthorized, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalid)
	}
	ErrTokenGenerate = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevAuthGenerateToken)
	}
	ErrSessionNotFound = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUnauthorized, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthSessionNotFound)
	}
	ErrInvalidEmailOrPassword = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUnauthorized, constvars.StatusUnauthorized, constvars.ErrClientInvalidEmailOrPassword, constvars.ErrDevAuthWrongCredentials)
	}
	ErrEmailAlreadyExist = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindInvalidInput, constvars.StatusBadRequest, constvars.ErrClientEmailAlreadyExists, constvars.ErrDevEmailAlreadyExists)
	}

	// Mongo DB
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevDBFailedToUpdateDocument)
	}
	ErrMongoDBDeleteDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevDBFailedToDeleteDocument)
	}
	ErrMongoDBIterateDocuments = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevDBFailedToIterateDocuments)
	}

	// Minio
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}
	ErrMinioGetObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, fmt.Sprintf(constvars.ErrDevMinioFailedToGetObject, bucketName))
	}
	ErrMinioSetPolicy = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, fmt.Sprintf(constvars.ErrDevMinioFailedToSetPolicy, bucketName))
	}
	ErrMinioRemoveObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, fmt.Sprintf(constvars.ErrDevMinioFailedToRemoveObject, bucketName))
	}

	// Redis
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevRedisSetData)
	}
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevRedisGetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevRedisUnlock)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}

	// Identity provider
	ErrIdentityLookup = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevIdentityLookup)
	}
	ErrIdentityCreate = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevIdentityCreate)
	}
	ErrIdentityUpdate = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevIdentityUpdate)
	}
	ErrIdentityDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevIdentityDelete)
	}
	ErrIdentityAuthenticate = func(err error) *CustomError {
		return BuildNewCustomError(err, ErrKindUpstreamUnavailable, constvars.StatusServiceUnavailable, constvars.ErrClientServiceUnavailable, constvars.ErrDevIdentityAuthenticate)
	}
)
