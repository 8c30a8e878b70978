package responses

import "time"

type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	AssignedPatients []string  `json:"assigned_patients,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type AssignmentResult struct {
	DoctorID         string   `json:"doctor_id"`
	PatientID        string   `json:"patient_id"`
	Outcome          string   `json:"outcome"`
	AssignedPatients []string `json:"assigned_patients"`
}
