package model

import "time"

// SessionEntry is the fast-cache projection of a conversation's parameters.
type SessionEntry struct {
	TenantID  string            `json:"tenant_id"`
	VisitorID string            `json:"visitor_id"`
	Params    map[string]string `json:"params"`
	UpdatedAt time.Time         `json:"updated_at"`
}
