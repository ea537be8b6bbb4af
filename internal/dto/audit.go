package dto

// ── audit & maintenance ──

// AuditResult one audited identity.
type AuditResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	DaysOffset int    `json:"daysOffset"`
	Action     string `json:"action"`
	Message    string `json:"message"`
}

// AuditResponse batch audit summary.
type AuditResponse struct {
	Audited int           `json:"audited"`
	Blocked int           `json:"blocked"`
	Warned  int           `json:"warned"`
	Skipped int           `json:"skipped"` // removed while the audit ran
	Results []AuditResult `json:"results"`
}

// StorageReport storage diagnostic.
type StorageReport struct {
	HealthScore      int    `json:"healthScore"`
	Recommendations  string `json:"recommendations"`
	PotentialSavings string `json:"potentialSavings"`
}

// DeepCleanResponse diagnostic plus the number of cleared audit notes.
type DeepCleanResponse struct {
	Report       StorageReport `json:"report"`
	ClearedNotes int           `json:"clearedNotes"`
}
