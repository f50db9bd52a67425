package model

import "time"

// AuditAction enumerates the recorded security-relevant actions.
type AuditAction string

const (
	ActionUpload   AuditAction = "UPLOAD"
	ActionDownload AuditAction = "DOWNLOAD"
	ActionView     AuditAction = "VIEW"
	ActionShare    AuditAction = "SHARE"
	ActionDelete   AuditAction = "DELETE"
	ActionUpdate   AuditAction = "UPDATE"
)

// AuditLog is one append-only ledger entry. Entries are never mutated after
// insert; they are removed only in bulk when their owning document is deleted.
// UserID and AccessLinkID are historical pointers, not ownership references.
type AuditLog struct {
	ID           string      `json:"id"`
	Action       AuditAction `json:"action"`
	UserID       string      `json:"user_id,omitempty"`
	AccessLinkID string      `json:"access_link_id,omitempty"`
	DocumentID   string      `json:"document_id"`
	IPAddress    string      `json:"ip_address,omitempty"`
	UserAgent    string      `json:"user_agent,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

// ClientInfo carries network metadata of the caller for audit purposes.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}
