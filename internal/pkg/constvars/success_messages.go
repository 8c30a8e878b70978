package constvars

const (
	ResponseUnknown = "unknown"

	// Auth messages
	LoginSuccessMessage  = "successfully login"
	LogoutSuccessMessage = "successfully logout"

	// Dashboard messages
	GetPatientDashboardSuccessMessage = "get patient dashboard successfully"
	GetDoctorDashboardSuccessMessage  = "get doctor dashboard successfully"
	GetAdminDashboardSuccessMessage   = "get admin dashboard successfully"

	// Document messages
	GetDocumentSuccessMessage         = "get document successfully"
	GetPatientDocumentsSuccessMessage = "get patient documents successfully"
	UploadDocumentSuccessMessage      = "document uploaded successfully"

	// Account messages
	CreateAccountSuccessMessage = "account created successfully"
	UpdateAccountSuccessMessage = "account updated successfully"
	DeleteAccountSuccessMessage = "account deleted successfully"
	GetAccountSuccessMessage    = "get account successfully"
	GetAccountsSuccessMessage   = "get accounts successfully"

	// Assignment messages
	AssignPatientSuccessMessage         = "patient assigned to doctor"
	AssignPatientAlreadyAssignedMessage = "patient is already assigned to this doctor"
	UnassignPatientSuccessMessage       = "patient unassigned from doctor"
	UnassignPatientNotAssignedMessage   = "patient is not assigned to this doctor"
)
