package domain

import "time"

// RunSummary describes the outcome of one pipeline invocation. It is logged
// at the end of every run and, when a broker is configured, published to the
// summary topic for downstream bookkeeping.
type RunSummary struct {
	RunDate        string    `json:"run_date"` // YYYYMMDD
	Indicator      string    `json:"indicator"`
	YearsRequested int       `json:"years_requested"`
	YearsFetched   int       `json:"years_fetched"`
	FailedYears    []string  `json:"failed_years,omitempty"` // Dim1 tokens that returned errors
	Rows           int       `json:"rows"`
	RawObject      string    `json:"raw_object"`
	CleanObject    string    `json:"clean_object"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}
