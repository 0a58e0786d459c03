package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
)

const reportKeyPrefix = "report:"

// BadgerReportRepository implements the report repository interface using BadgerDB
type BadgerReportRepository struct {
	db *badger.DB
}

// NewBadgerReportRepository creates a new BadgerDB report repository
func NewBadgerReportRepository(db *badger.DB) *BadgerReportRepository {
	return &BadgerReportRepository{db: db}
}

// Open opens a badger database in dir; an empty dir opens an in-memory database
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return db, nil
}

// Store saves a report, assigning an ID when it has none
func (r *BadgerReportRepository) Store(ctx context.Context, report *entity.ReconciliationReport) (string, error) {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(reportKeyPrefix+report.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store report: %w", err)
	}

	return report.ID, nil
}

// FindByID retrieves a report by its unique identifier
func (r *BadgerReportRepository) FindByID(ctx context.Context, id string) (*entity.ReconciliationReport, error) {
	var report entity.ReconciliationReport

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(reportKeyPrefix + id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &report)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", entity.ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve report: %w", err)
	}

	return &report, nil
}
