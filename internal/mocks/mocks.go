// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockQuoteAPI mocks the QuoteAPI interface
type MockQuoteAPI struct {
	mock.Mock
}

func (m *MockQuoteAPI) FetchLatest(ctx context.Context, pairs []string) map[string]entity.LatestQuote {
	args := m.Called(ctx, pairs)
	if args.Get(0) == nil {
		return map[string]entity.LatestQuote{}
	}
	return args.Get(0).(map[string]entity.LatestQuote)
}

func (m *MockQuoteAPI) FetchOne(ctx context.Context, currency, date string) (entity.QuotePoint, bool, error) {
	args := m.Called(ctx, currency, date)
	return args.Get(0).(entity.QuotePoint), args.Bool(1), args.Error(2)
}

func (m *MockQuoteAPI) FetchRange(ctx context.Context, currency string, start, end time.Time) ([]entity.QuotePoint, error) {
	args := m.Called(ctx, currency, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.QuotePoint), args.Error(1)
}

// MockTableRepository mocks the TableRepository interface
type MockTableRepository struct {
	mock.Mock
}

func (m *MockTableRepository) Load(ctx context.Context, path string) (*entity.Table, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Table), args.Error(1)
}

func (m *MockTableRepository) Save(ctx context.Context, table *entity.Table, path string) error {
	args := m.Called(ctx, table, path)
	return args.Error(0)
}

// MockReportRepository mocks the ReportRepository interface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Store(ctx context.Context, report *entity.ReconciliationReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id string) (*entity.ReconciliationReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReconciliationReport), args.Error(1)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
