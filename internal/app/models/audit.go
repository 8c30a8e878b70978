package models

import "time"

type AuditEventType string

const (
	AuditEventAccountCreated    AuditEventType = "account.created"
	AuditEventAccountDeleted    AuditEventType = "account.deleted"
	AuditEventAssignmentAdded   AuditEventType = "assignment.added"
	AuditEventAssignmentRemoved AuditEventType = "assignment.removed"
	AuditEventDocumentUploaded  AuditEventType = "document.uploaded"
	AuditEventAccessDenied      AuditEventType = "access.denied"
)

type AuditEvent struct {
	ID         string            `json:"id"`
	Type       AuditEventType    `json:"type"`
	Source     string            `json:"source"`
	RequestID  string            `json:"request_id,omitempty"`
	ActorID    string            `json:"actor_id,omitempty"`
	SubjectID  string            `json:"subject_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
