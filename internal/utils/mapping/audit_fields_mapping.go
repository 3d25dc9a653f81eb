package mapping

import (
	"github.com/SscSPs/cash_memo_ledger/internal/core/domain"
	"github.com/SscSPs/cash_memo_ledger/internal/models"
)

// ToModelAuditFields copies the audit columns of a memo header row.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields(d)
}

// ToDomainAuditFields reads the audit columns back. Drivers disagree on the
// location they attach to scanned timestamps, so both
// instants are pinned to UTC.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	a := domain.AuditFields(m)
	a.CreatedAt = a.CreatedAt.UTC()
	a.LastUpdatedAt = a.LastUpdatedAt.UTC()
	return a
}
