package handler

import "github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"

// CurrenciesResponse lists the currencies offered for single lookups
type CurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}

// QuoteResponse represents the response for the single lookup endpoint
type QuoteResponse struct {
	Currency     string `json:"currency"`
	Date         string `json:"date"`
	BaseCurrency string `json:"base_currency"`
	Bid          string `json:"bid"`
	Timestamp    string `json:"timestamp,omitempty"`
	Status       string `json:"status"`
}

// ReconcileRequest represents the request body for starting a reconciliation
type ReconcileRequest struct {
	FilePath  string `json:"file_path"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ReconcileResponse represents a finished reconciliation
type ReconcileResponse struct {
	ID           string                   `json:"id"`
	InputPath    string                   `json:"input_path"`
	OutputPath   string                   `json:"output_path"`
	StartDate    string                   `json:"start_date"`
	EndDate      string                   `json:"end_date"`
	ColumnsAdded []string                 `json:"columns_added"`
	Outcomes     []entity.CurrencyOutcome `json:"outcomes"`
	Status       string                   `json:"status,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func newReconcileResponse(report *entity.ReconciliationReport, status string) ReconcileResponse {
	columns := report.ColumnsAdded
	if columns == nil {
		columns = []string{}
	}
	outcomes := report.Outcomes
	if outcomes == nil {
		outcomes = []entity.CurrencyOutcome{}
	}

	return ReconcileResponse{
		ID:           report.ID,
		InputPath:    report.InputPath,
		OutputPath:   report.OutputPath,
		StartDate:    report.Range.Start.Format(entity.DisplayDateLayout),
		EndDate:      report.Range.End.Format(entity.DisplayDateLayout),
		ColumnsAdded: columns,
		Outcomes:     outcomes,
		Status:       status,
	}
}
