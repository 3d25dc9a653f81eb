package services

// ServiceContainer groups the ledger's inbound ports. main wires the concrete
// services once at startup and the HTTP layer only ever sees these interfaces.
type ServiceContainer struct {
	// CashMemo owns every write to a day's memo, including recompute.
	CashMemo CashMemoSvcFacade
	// Reporting and Party are read-only views over stored memos.
	Reporting ReportingService
	Party     PartySvc
}
