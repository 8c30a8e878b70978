package models

type AssignmentOutcome string

const (
	AssignmentOutcomeAssigned        AssignmentOutcome = "assigned"
	AssignmentOutcomeAlreadyAssigned AssignmentOutcome = "already_assigned"
	AssignmentOutcomeUnassigned      AssignmentOutcome = "unassigned"
	AssignmentOutcomeNotAssigned     AssignmentOutcome = "not_assigned"
)
