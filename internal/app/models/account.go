package models

// Account mirrors one identity. AssignedPatients is only meaningful for
// doctors and is mutated exclusively through atomic set operators.
type Account struct {
	ID               string   `bson:"_id"`
	Email            string   `bson:"email"`
	Role             Role     `bson:"role"`
	AssignedPatients []string `bson:"assignedPatients"`
	TimeModel        `bson:",inline"`
}

func (a *Account) IsAssigned(patientID string) bool {
	for _, id := range a.AssignedPatients {
		if id == patientID {
			return true
		}
	}
	return false
}
