package model

// Stats aggregates invoice counts and processing timings for the dashboard.
type Stats struct {
	Total                 int                   `json:"total"`
	ByStatus              map[InvoiceStatus]int `json:"by_status"`
	AverageProcessingSecs float64               `json:"average_processing_time"`
}
