package models

import "time"

// AuditEntry is one immutable line of the audit trail.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	UserID    int64     `json:"userId"`
}

// Actor renders UserID for display; SystemActor shows as "System".
func (e AuditEntry) Actor() string {
	if e.UserID == SystemActor {
		return "System"
	}
	return formatID(e.UserID)
}
