package dto

// CorrectionDTO is one counter fixed by a reconciliation sweep.
type CorrectionDTO struct {
	TenantID string `json:"tenantId"`
	Name     string `json:"name"`
	OldValue int64  `json:"oldValue"`
	NewValue int64  `json:"newValue"`
}

// SweepReportDTO is the response of POST /reconcile-counters.
type SweepReportDTO struct {
	CorrectedCount int             `json:"correctedCount"`
	Corrections    []CorrectionDTO `json:"corrections"`
}
