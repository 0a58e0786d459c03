package entity

import (
	"time"
)

// OutcomeStatus tags the result of fetching and merging one currency
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeEmpty     OutcomeStatus = "empty"
	OutcomeFailed    OutcomeStatus = "failed"
)

// CurrencyOutcome is the result of one currency within a batch
type CurrencyOutcome struct {
	Currency    string        `json:"currency"`
	Status      OutcomeStatus `json:"status"`
	Points      int           `json:"points"`
	Written     int           `json:"written"`
	Skipped     int           `json:"skipped"`
	Error       string        `json:"error,omitempty"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

// ReconciliationReport summarises one reconciliation run
type ReconciliationReport struct {
	ID           string            `json:"id"`
	InputPath    string            `json:"input_path"`
	OutputPath   string            `json:"output_path"`
	Range        DateRange         `json:"range"`
	Outcomes     []CurrencyOutcome `json:"outcomes"`
	ColumnsAdded []string          `json:"columns_added"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
}

// Failed returns the currencies whose fetch failed
func (r *ReconciliationReport) Failed() []string {
	var failed []string
	for _, o := range r.Outcomes {
		if o.Status == OutcomeFailed {
			failed = append(failed, o.Currency)
		}
	}
	return failed
}

// Partial reports whether at least one currency failed but the run still completed
func (r *ReconciliationReport) Partial() bool {
	return len(r.Failed()) > 0
}

// CellsWritten returns the number of cells written across all currencies
func (r *ReconciliationReport) CellsWritten() int {
	total := 0
	for _, o := range r.Outcomes {
		total += o.Written
	}
	return total
}
