package models

import "time"

// Audit actions recorded by the portal.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionRecordFiled    = "CONDUCT_RECORD_FILED"
	AuditActionServiceLogged  = "SERVICE_LOG_FILED"
	AuditActionResolution     = "INFRACTION_RESOLVED"
	AuditActionExport         = "CONDUCT_EXPORT"
	AuditActionAPIWrite       = "API_WRITE"
)

// AuditLog captures a single auditable action.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
