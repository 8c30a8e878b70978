package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of [%s]",
	"role":     "must be one of [patient, doctor, admin]",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServiceUnavailable            = "the service is temporarily unavailable, please try again"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientInvalidEmailOrPassword        = "invalid email or password"
	ErrClientEmailAlreadyExists            = "email already used"
	ErrClientResourceUnavailable           = "the requested resource is not available"
	ErrClientAccountNotFound               = "account not found"
	ErrClientDoctorNotFound                = "doctor not found"
	ErrClientPatientNotFound               = "patient not found"
	ErrClientConcurrentUpdate              = "the record was changed by someone else, please retry"
)

// Error messages for developers
const (
	ErrDevInvalidInput             = "invalid input"
	ErrDevValidationFailed         = "validation failed"
	ErrDevCannotParseJSON          = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON        = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form body"
	ErrDevURLParamValidationFailed = "url param '%s' is invalid"
	ErrDevInvalidRole              = "invalid role '%s', should be 'patient', 'doctor' or 'admin'"
	ErrDevInvalidAssignmentAction  = "invalid assignment action '%s', should be 'assign' or 'unassign'"
	ErrDevMissingRequestID         = "request id missing from context"
	ErrDevMissingSessionData       = "session data missing from context"
	ErrDevServerDeadlineExceeded   = "deadline exceeded"
	ErrDevServerProcess            = "server failed to process the request"

	// Access control
	ErrDevAccessDenied               = "access denied for %s on %s"
	ErrDevResourceNotFound           = "%s '%s' not found"
	ErrDevAccountNotFound            = "account '%s' not found"
	ErrDevDoctorNotFound             = "account '%s' is not a doctor"
	ErrDevPatientNotFound            = "account '%s' is not a patient"
	ErrDevAssignmentConflict         = "assignment set of doctor '%s' changed concurrently"
	ErrDevAssignmentRetriesExhausted = "assignment of doctor '%s' still conflicting after %d attempts"
	ErrDevPatientLockNotAcquired     = "lock for patient '%s' held by another request"
	ErrDevOrphanedIdentity           = "identity '%s' created without account record"

	// Authentication
	ErrDevAuthSigningMethod    = "unexpected signing method"
	ErrDevAuthTokenInvalid     = "invalid token"
	ErrDevAuthTokenMissing     = "token missing"
	ErrDevAuthGenerateToken    = "failed to generate token"
	ErrDevAuthWrongCredentials = "identity provider rejected the credentials"
	ErrDevAuthSessionNotFound  = "session not found or expired"
	ErrDevEmailAlreadyExists   = "email already exists"

	// Mongo
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToDeleteDocument   = "failed to delete document from database"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents from database"

	// Minio
	ErrDevMinioFailedToCreateObject = "failed to create object in bucket %s"
	ErrDevMinioFailedToGetObject    = "failed to get object from bucket %s"
	ErrDevMinioFailedToSetPolicy    = "failed to set public policy on bucket %s"
	ErrDevMinioFailedToRemoveObject = "failed to remove object from bucket %s"

	// Redis
	ErrDevRedisSetData    = "failed to set data into redis"
	ErrDevRedisGetData    = "failed to get data from redis"
	ErrDevRedisDeleteData = "failed to delete data from redis"
	ErrDevRedisUnlock     = "failed to release redis lock"

	// RabbitMQ
	ErrDevRabbitMQPublishMessage = "failed to publish message to queue %s"

	// Identity provider
	ErrDevIdentityLookup       = "failed to look up identity by email"
	ErrDevIdentityCreate       = "failed to create identity"
	ErrDevIdentityUpdate       = "failed to update identity"
	ErrDevIdentityDelete       = "failed to delete identity"
	ErrDevIdentityAuthenticate = "failed to authenticate identity"
)
