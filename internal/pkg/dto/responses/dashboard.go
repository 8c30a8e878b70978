package responses

type PatientDashboard struct {
	Account   Account    `json:"account"`
	Documents []Document `json:"documents"`
}

type AssignedPatient struct {
	PatientID string     `json:"patient_id"`
	Documents []Document `json:"documents"`
}

type DoctorDashboard struct {
	Account  Account           `json:"account"`
	Patients []AssignedPatient `json:"patients"`
}

type AdminDashboard struct {
	Account  Account   `json:"account"`
	Patients []Account `json:"patients"`
	Doctors  []Account `json:"doctors"`
	Admins   []Account `json:"admins"`
}
