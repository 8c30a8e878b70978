package models

import "fmt"

type ActionKind int

const (
	ActionAdmin ActionKind = iota + 1
	ActionViewOwnDashboard
	ActionViewDocument
	ActionViewPatientDocuments
	ActionViewPatientList
)

func (k ActionKind) String() string {
	switch k {
	case ActionAdmin:
		return "admin_action"
	case ActionViewOwnDashboard:
		return "view_own_dashboard"
	case ActionViewDocument:
		return "view_document"
	case ActionViewPatientDocuments:
		return "view_patient_documents"
	case ActionViewPatientList:
		return "view_patient_list"
	}
	return "unknown"
}

// Action is what a requester asks to do. Only the field matching Kind is set.
type Action struct {
	Kind      ActionKind
	Dashboard Role
	Document  *Document
	Patient   *Account
}

func AdminAction() Action {
	return Action{Kind: ActionAdmin}
}

func ViewOwnDashboard(dashboard Role) Action {
	return Action{Kind: ActionViewOwnDashboard, Dashboard: dashboard}
}

// ViewDocument takes the document as read from the store; nil means it does not exist.
func ViewDocument(doc *Document) Action {
	return Action{Kind: ActionViewDocument, Document: doc}
}

// ViewPatientDocuments takes the patient account as read from the store; nil
// means no account exists under the requested id.
func ViewPatientDocuments(patient *Account) Action {
	return Action{Kind: ActionViewPatientDocuments, Patient: patient}
}

func ViewPatientList() Action {
	return Action{Kind: ActionViewPatientList}
}

// Object is the casbin object the action is checked against.
func (a Action) Object() string {
	switch a.Kind {
	case ActionViewOwnDashboard:
		return "dashboard:" + a.Dashboard.String()
	case ActionViewDocument:
		return "document"
	case ActionViewPatientDocuments:
		return "patient_documents"
	case ActionViewPatientList:
		return "patient_list"
	case ActionAdmin:
		return "admin"
	}
	return ""
}

func (a Action) String() string {
	switch a.Kind {
	case ActionViewOwnDashboard:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Dashboard)
	case ActionViewDocument:
		if a.Document == nil {
			return fmt.Sprintf("%s(<missing>)", a.Kind)
		}
		return fmt.Sprintf("%s(%s)", a.Kind, a.Document.ID)
	case ActionViewPatientDocuments:
		if a.Patient == nil {
			return fmt.Sprintf("%s(<missing>)", a.Kind)
		}
		return fmt.Sprintf("%s(%s)", a.Kind, a.Patient.ID)
	}
	return a.Kind.String()
}
