package models

// Decision is the outcome of an authorization check. The zero value denies.
type Decision int

const (
	DecisionDeny Decision = iota
	DecisionAllow
	DecisionNotFound
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionNotFound:
		return "not_found"
	}
	return "deny"
}
