package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY ContextKey           = "request_id"
	CONTEXT_SESSION_DATA_KEY ContextKey         = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "MDREC_SVC_"
)

const (
	MongoCollectionAccounts  = "accounts"
	MongoCollectionDocuments = "documents"
)

const (
	ResourceAuth       = "auth"
	ResourceAdmin      = "admin"
	ResourceDashboards = "dashboards"
	ResourceDocuments  = "documents"
	ResourcePatients   = "patients"
)

const (
	// Object keys follow pdfs/<patient_id>/<file_name>
	BlobDocumentPathFormat    = "pdfs/%s/%s"
	BlobDefaultContentType    = MIMEApplicationPDF
	BlobPublicURLFormat       = "%s://%s/%s/%s"
	BlobPublicReadStatementID = "PublicReadDocuments"
)

const (
	LockKeyPatientFormat      = "lock:patient:%s"
	LockKeyReconciliation     = "lock:reconciliation"
	RedisSessionKeyFormat     = "session:%s"
	AuditEventSourceService   = "medrecords-service"
	DashboardPathPatient      = "/dashboards/patient"
	DashboardPathDoctor       = "/dashboards/doctor"
	DashboardPathAdmin        = "/dashboards/admin"
	DefaultRequestTimeoutSec  = 10
	DefaultDownloadTimeoutSec = 300
)
