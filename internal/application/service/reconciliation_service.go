// Package service internal/application/service/reconciliation_service.go
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/domain/repository"
	domainservice "github.com/damon-houk/fx-quote-reconciler/internal/domain/service"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/metrics"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/middleware"
	"github.com/google/uuid"
)

// DefaultOutputSuffix is inserted before the extension of the input file name
const DefaultOutputSuffix = "_updated"

var errMissingFile = fmt.Errorf("%w: spreadsheet path", entity.ErrMissingField)

// ReconciliationConfig configures the batch orchestrator
type ReconciliationConfig struct {
	OutputSuffix string
	Location     *time.Location
}

// ReconciliationService reconciles a spreadsheet of currencies against a date range
type ReconciliationService struct {
	quotes     domainservice.QuoteAPI
	tables     repository.TableRepository
	reports    repository.ReportRepository
	reconciler *TableReconciler
	suffix     string
	location   *time.Location
	logger     logger.Logger
	metrics    *metrics.QuoteMetrics
	now        func() time.Time
}

// NewReconciliationService creates a new reconciliation service; reports may be nil to disable the journal
func NewReconciliationService(
	quotes domainservice.QuoteAPI,
	tables repository.TableRepository,
	reports repository.ReportRepository,
	cfg ReconciliationConfig,
	log logger.Logger,
	m *metrics.QuoteMetrics,
) *ReconciliationService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = DefaultOutputSuffix
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &ReconciliationService{
		quotes:     quotes,
		tables:     tables,
		reports:    reports,
		reconciler: NewTableReconciler(cfg.Location, log),
		suffix:     cfg.OutputSuffix,
		location:   cfg.Location,
		logger:     log,
		metrics:    m,
		now:        time.Now,
	}
}

// ReconcileFile loads filePath, fetches every currency of its first column over
// [startDate, endDate] and writes the merged table next to the input.
// A failing currency is recorded in the report and never aborts the batch.
func (s *ReconciliationService) ReconcileFile(ctx context.Context, filePath, startDate, endDate string) (*entity.ReconciliationReport, error) {
	requestID := middleware.GetRequestID(ctx)
	filePath = strings.TrimSpace(filePath)

	s.logger.Info("Reconciling spreadsheet", map[string]interface{}{
		"request_id": requestID,
		"path":       filePath,
		"start_date": startDate,
		"end_date":   endDate,
	})

	if filePath == "" {
		s.metrics.ObserveReconciliation("aborted")
		return nil, errMissingFile
	}

	table, err := s.tables.Load(ctx, filePath)
	if err != nil {
		s.abort(requestID, "Failed to load spreadsheet", err)
		return nil, fmt.Errorf("failed to load spreadsheet: %w", err)
	}

	currencies := table.Currencies()
	if len(table.Rows) == 0 || len(currencies) == 0 {
		s.abort(requestID, "Spreadsheet has no currencies", entity.ErrEmptyInput)
		return nil, fmt.Errorf("%w: %s", entity.ErrEmptyInput, filePath)
	}

	dateRange, err := entity.ParseDateRange(startDate, endDate, s.location)
	if err != nil {
		s.abort(requestID, "Invalid date range", err)
		return nil, err
	}

	report := &entity.ReconciliationReport{
		ID:        uuid.New().String(),
		InputPath: filePath,
		Range:     dateRange,
		StartedAt: s.now(),
	}

	for _, currency := range currencies {
		outcome := s.reconcileCurrency(ctx, requestID, table, currency, dateRange)
		report.Outcomes = append(report.Outcomes, outcome)
		s.metrics.ObserveCurrencyOutcome(string(outcome.Status), outcome.Written)
	}
	report.ColumnsAdded = table.AddedColumns()

	outputPath := OutputPath(filePath, s.suffix)
	if err := s.tables.Save(ctx, table, outputPath); err != nil {
		s.abort(requestID, "Failed to save spreadsheet", err)
		return nil, err
	}

	report.OutputPath = outputPath
	report.FinishedAt = s.now()

	result := "succeeded"
	if report.Partial() {
		result = "partial"
	}
	s.metrics.ObserveReconciliation(result)

	s.logger.Info("Reconciliation completed", map[string]interface{}{
		"request_id":    requestID,
		"report_id":     report.ID,
		"output_path":   outputPath,
		"currencies":    len(currencies),
		"failed":        report.Failed(),
		"columns_added": len(report.ColumnsAdded),
		"cells_written": report.CellsWritten(),
		"duration_ms":   report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	})

	s.journal(ctx, requestID, report)

	return report, nil
}

// Report returns a journaled report by ID
func (s *ReconciliationService) Report(ctx context.Context, id string) (*entity.ReconciliationReport, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("%w: journal disabled", entity.ErrReportNotFound)
	}
	return s.reports.FindByID(ctx, id)
}

func (s *ReconciliationService) reconcileCurrency(ctx context.Context, requestID string, table *entity.Table, currency string, dateRange entity.DateRange) entity.CurrencyOutcome {
	outcome := entity.CurrencyOutcome{Currency: currency}

	points, err := s.quotes.FetchRange(ctx, currency, dateRange.Start, dateRange.End)
	if err != nil {
		outcome.Status = entity.OutcomeFailed
		outcome.Error = err.Error()
		s.logger.Warn("Failed to fetch quotes for currency", map[string]interface{}{
			"request_id": requestID,
			"currency":   currency,
			"error":      err.Error(),
		})
		return outcome
	}

	outcome.Points = len(points)
	if len(points) == 0 {
		outcome.Status = entity.OutcomeEmpty
		s.logger.Info("No quotes returned for currency", map[string]interface{}{
			"request_id": requestID,
			"currency":   currency,
			"start_date": dateRange.Start.Format(entity.DisplayDateLayout),
			"end_date":   dateRange.End.Format(entity.DisplayDateLayout),
		})
		return outcome
	}

	merged := s.reconciler.Merge(table, currency, points)
	outcome.Status = entity.OutcomeSucceeded
	outcome.Written = merged.Written
	outcome.Skipped = merged.Skipped
	outcome.Diagnostics = merged.Diagnostics

	s.logger.Debug("Merged quotes for currency", map[string]interface{}{
		"request_id":    requestID,
		"currency":      currency,
		"points":        len(points),
		"written":       merged.Written,
		"skipped":       merged.Skipped,
		"columns_added": merged.ColumnsAdded,
	})

	return outcome
}

func (s *ReconciliationService) journal(ctx context.Context, requestID string, report *entity.ReconciliationReport) {
	if s.reports == nil {
		return
	}

	if _, err := s.reports.Store(ctx, report); err != nil {
		s.logger.Warn("Failed to journal reconciliation report", map[string]interface{}{
			"request_id": requestID,
			"report_id":  report.ID,
			"error":      err.Error(),
		})
	}
}

func (s *ReconciliationService) abort(requestID, msg string, err error) {
	s.metrics.ObserveReconciliation("aborted")
	s.logger.Error(msg, map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	})
}

// OutputPath inserts suffix before the extension of path, e.g. rates.xlsx -> rates_updated.xlsx
func OutputPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
