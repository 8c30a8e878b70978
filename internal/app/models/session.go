package models

// Session is stored in redis under session:<SessionID> and resolved on every
// authenticated request.
type Session struct {
	SessionID string `json:"session_id"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}
