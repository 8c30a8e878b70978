package constvars

const (
	MIMEApplicationJSON = "application/json"
	MIMEApplicationPDF  = "application/pdf"
	MIMEOctetStream     = "application/octet-stream"
	MIMEMultipartForm   = "multipart/form-data"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

const (
	HeaderAuthorization      = "Authorization"
	HeaderContentType        = "Content-Type"
	HeaderContentLength      = "Content-Length"
	HeaderContentDisposition = "Content-Disposition"
	HeaderXRequestID         = "X-Request-ID"
)

const (
	HeaderContentDispositionAttachmentFormat = `attachment; filename="%s"`
	AuthorizationBearerPrefix                = "Bearer "
)

const (
	URLParamDocumentID = "document_id"
	URLParamPatientID  = "patient_id"
	URLParamDoctorID   = "doctor_id"
	URLParamAccountID  = "account_id"
	QueryParamRole     = "role"
	FormFieldFile      = "file"
)
