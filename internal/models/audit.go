package models

import (
	"encoding/json"
	"time"
)

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionCreate         = "INSERT"
	AuditActionUpdate         = "UPDATE"
	AuditActionDelete         = "DELETE"
	AuditActionSubmit         = "SUBMIT"
	AuditActionDetailUpdate   = "RESPONSE_DETAIL_UPDATE"
	AuditActionDownload       = "DOWNLOAD"
)

// Audited resources, named after the tables they touch.
const (
	AuditResourceAuth            = "auth"
	AuditResourceUsers           = "users"
	AuditResourceGovernorates    = "governorates"
	AuditResourceRegions         = "health_administrations"
	AuditResourceSurveys         = "surveys"
	AuditResourceResponses       = "responses"
	AuditResourceResponseDetails = "response_details"
	AuditResourceExports         = "export_jobs"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"-"`
	NewValues  []byte    `db:"new_values" json:"-"`
	IPAddress  string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditLogEntry is an audit record joined with the acting username.
type AuditLogEntry struct {
	AuditLog
	Username *string `db:"username" json:"username,omitempty"`
}

// MarshalJSON renders the stored JSON snapshots inline.
func (e AuditLogEntry) MarshalJSON() ([]byte, error) {
	type alias AuditLogEntry
	return json.Marshal(struct {
		alias
		OldValues json.RawMessage `json:"old_values,omitempty"`
		NewValues json.RawMessage `json:"new_values,omitempty"`
	}{
		alias:     alias(e),
		OldValues: rawOrNil(e.OldValues),
		NewValues: rawOrNil(e.NewValues),
	})
}

func rawOrNil(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}

// AuditLogFilter narrows audit log listings.
type AuditLogFilter struct {
	Resource string
	Action   string
	Username string
	From     *time.Time
	To       *time.Time
	Search   string
	Page     int
	PageSize int
}
