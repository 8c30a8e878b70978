package constvars

const (
	LoggingRequestIDKey    = "request_id"
	LoggingAccountIDKey    = "account_id"
	LoggingRoleKey         = "role"
	LoggingDoctorIDKey     = "doctor_id"
	LoggingPatientIDKey    = "patient_id"
	LoggingDocumentIDKey   = "document_id"
	LoggingActionKey       = "action"
	LoggingDecisionKey     = "decision"
	LoggingOutcomeKey      = "outcome"
	LoggingAttemptKey      = "attempt"
	LoggingCountKey        = "count"
	LoggingEmailKey        = "email"
	LoggingBlobPathKey     = "blob_path"
	LoggingQueueKey        = "queue"
	LoggingEventTypeKey    = "event_type"
	LoggingRedisKey        = "redis_key"
	LoggingLockValueKey    = "lock_value"
	LoggingLockTTLKey      = "lock_ttl"
	LoggingMethodKey       = "method"
	LoggingEndpointKey     = "endpoint"
	LoggingRemoteAddrKey   = "remote_addr"
	LoggingUserAgentKey    = "user_agent"
	LoggingStatusCodeKey   = "status_code"
	LoggingDurationKey     = "duration"
	LoggingSuccessKey      = "success"
	LoggingErrorKindKey    = "error_kind"
	LoggingCronSpecKey     = "cron_spec"
	LoggingIsClientReqKey  = "is_client_request_id"
	LoggingErrorMessageKey = "error_message"
)
