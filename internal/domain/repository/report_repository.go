package repository

import (
	"context"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
)

// ReportRepository defines the interface for the reconciliation journal
type ReportRepository interface {
	// Store saves a report and returns its ID
	Store(ctx context.Context, report *entity.ReconciliationReport) (string, error)

	// FindByID retrieves a report by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.ReconciliationReport, error)
}
