package models

// DashboardSummary is recomputed from the store on every request.
type DashboardSummary struct {
	TotalStudents        int64   `json:"total_students"`
	TotalFeesDue         float64 `json:"total_fees_due"`
	TotalFeesCollected   float64 `json:"total_fees_collected"`
	PendingFees          float64 `json:"pending_fees"`
	PendingPaymentsCount int64   `json:"pending_payments_count"`
	TotalExpenses        float64 `json:"total_expenses"`
	NetRevenue           float64 `json:"net_revenue"`
}

// FeeTotals is the raw sum over all fee records.
type FeeTotals struct {
	TotalDue  float64
	TotalPaid float64
}
