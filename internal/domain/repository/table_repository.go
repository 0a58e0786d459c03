// Package repository internal/domain/repository/table_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
)

// TableRepository defines the interface for spreadsheet access
type TableRepository interface {
	// Load reads the first sheet of a spreadsheet into a working table
	Load(ctx context.Context, path string) (*entity.Table, error)

	// Save writes the working table to path; the table's source file is never written
	Save(ctx context.Context, table *entity.Table, path string) error
}
