package domain

import "time"

// AuditFields records who created a memo and who last changed it.
// Timestamps are kept in UTC.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps creation and last update with the same actor and instant.
func NewAuditFields(userID string, at time.Time) AuditFields {
	at = at.UTC()
	return AuditFields{CreatedAt: at, CreatedBy: userID, LastUpdatedAt: at, LastUpdatedBy: userID}
}

// Stamp moves the last-update marker; creation data is never rewritten.
func (a *AuditFields) Stamp(userID string, at time.Time) {
	a.LastUpdatedAt = at.UTC()
	a.LastUpdatedBy = userID
}
