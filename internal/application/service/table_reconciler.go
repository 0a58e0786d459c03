package service

import (
	"fmt"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
)

// MergeResult describes what a merge did to the table
type MergeResult struct {
	Written      int
	Skipped      int
	ColumnsAdded []string
	Diagnostics  []string
}

// TableReconciler merges quote points into date-named columns of a working table
type TableReconciler struct {
	location *time.Location
	logger   logger.Logger
}

// NewTableReconciler creates a reconciler that derives column names in loc
func NewTableReconciler(loc *time.Location, log logger.Logger) *TableReconciler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TableReconciler{location: loc, logger: log}
}

// ColumnFor returns the dd/mm/yyyy column name of a timestamp
func (r *TableReconciler) ColumnFor(ts time.Time) string {
	return ts.In(r.location).Format(entity.DisplayDateLayout)
}

// Merge writes every complete point for currency into the table, in place.
// Missing columns are appended; existing cells without a matching point are left alone.
// A currency with no matching row changes nothing.
func (r *TableReconciler) Merge(table *entity.Table, currency string, points []entity.QuotePoint) MergeResult {
	var result MergeResult

	rows := table.RowsWithKey(currency)
	if len(rows) == 0 {
		msg := fmt.Sprintf("no row for currency %s", currency)
		result.Diagnostics = append(result.Diagnostics, msg)
		r.logger.Warn("Currency has no matching row", map[string]interface{}{
			"currency": currency,
			"points":   len(points),
		})
		return result
	}

	for i, p := range points {
		if !p.Complete() {
			result.Skipped++
			msg := fmt.Sprintf("incomplete quote %d for %s skipped", i, currency)
			result.Diagnostics = append(result.Diagnostics, msg)
			r.logger.Debug("Skipping incomplete quote", map[string]interface{}{
				"currency":      currency,
				"index":         i,
				"has_timestamp": !p.Timestamp.IsZero(),
				"has_bid":       p.Bid.Valid,
			})
			continue
		}

		column := r.ColumnFor(p.Timestamp)
		col := table.ColumnIndex(column)
		if col < 0 {
			col = table.AddColumn(column)
			result.ColumnsAdded = append(result.ColumnsAdded, column)
		}

		for _, row := range rows {
			table.SetQuote(row, col, p.Bid.Decimal)
			result.Written++
		}
	}

	return result
}
