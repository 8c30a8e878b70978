package requests

const (
	AssignmentActionAssign   = "assign"
	AssignmentActionUnassign = "unassign"
)

// AssignmentForm mirrors the admin dashboard's assignment form.
type AssignmentForm struct {
	DoctorID  string `json:"doctor_id" validate:"required"`
	PatientID string `json:"patient_id" validate:"required"`
	Action    string `json:"action" validate:"required"`
}
