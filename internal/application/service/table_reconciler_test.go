package service

import (
	"testing"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(currency string, ts time.Time, bid string) entity.QuotePoint {
	return entity.QuotePoint{
		Currency:  currency,
		Timestamp: ts,
		Bid:       decimal.NewNullDecimal(decimal.RequireFromString(bid)),
		BidRaw:    bid,
	}
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func assertBid(t *testing.T, table *entity.Table, row, col int, want string) {
	t.Helper()
	cell := table.Cell(row, col)
	require.True(t, cell.Quote.Valid, "cell %d/%d has no quote", row, col)
	assert.True(t, cell.Quote.Decimal.Equal(decimal.RequireFromString(want)),
		"cell %d/%d = %s, want %s", row, col, cell.Quote.Decimal, want)
}

func newCurrencyTable() *entity.Table {
	return entity.NewTable(
		[]string{"Moeda", "Nome"},
		[][]string{{"USD", "Dólar"}, {"EUR", "Euro"}},
	)
}

func TestMergeAppendsColumn(t *testing.T) {
	reconciler := NewTableReconciler(time.UTC, logger.Discard())
	table := newCurrencyTable()

	result := reconciler.Merge(table, "USD", []entity.QuotePoint{point("USD", day(1), "5.00")})

	assert.Equal(t, []string{"Moeda", "Nome", "01/01/2024"}, table.Columns)
	assert.Equal(t, []string{"01/01/2024"}, result.ColumnsAdded)
	assert.Equal(t, 1, result.Written)
	assertBid(t, table, 0, 2, "5.00")
	assert.True(t, table.Cell(1, 2).Empty())
	assert.Equal(t, "Euro", table.Cell(1, 1).Text)
}

func TestMergeSameDateLastWins(t *testing.T) {
	reconciler := NewTableReconciler(time.UTC, logger.Discard())
	table := newCurrencyTable()

	reconciler.Merge(table, "USD", []entity.QuotePoint{point("USD", day(1), "5.00")})
	reconciler.Merge(table, "USD", []entity.QuotePoint{point("USD", day(1), "5.00")})
	assert.Len(t, table.Columns, 3)
	assertBid(t, table, 0, 2, "5.00")

	result := reconciler.Merge(table, "USD", []entity.QuotePoint{point("USD", day(1), "5.25")})
	assert.Empty(t, result.ColumnsAdded)
	assert.Len(t, table.Columns, 3)
	assertBid(t, table, 0, 2, "5.25")
}

func TestMergeKeepsCellsWithoutQuotes(t *testing.T) {
	reconciler := NewTableReconciler(time.UTC, logger.Discard())
	table := entity.NewTable(
		[]string{"Moeda", "01/01/2024"},
		[][]string{{"USD", "4.90"}, {"EUR", "5.30"}},
	)

	reconciler.Merge(table, "USD", []entity.QuotePoint{point("USD", day(2), "5.10")})
	reconciler.Merge(table, "EUR", nil)

	assert.Equal(t, []string{"Moeda", "01/01/2024", "02/01/2024"}, table.Columns)
	assert.Equal(t, "4.90", table.Cell(0, 1).String())
	assert.Equal(t, "5.30", table.Cell(1, 1).String())
	assertBid(t, table, 0, 2, "5.10")
	assert.True(t, table.Cell(1, 2).Empty())
}

func TestMergeSkipsIncompletePoints(t *testing.T) {
	reconciler := NewTableReconciler(time.UTC, logger.Discard())
	table := newCurrencyTable()

	noTimestamp := point("USD", time.Time{}, "5.00")
	noBid := entity.QuotePoint{Currency: "USD", Timestamp: day(3)}

	result := reconciler.Merge(table, "USD", []entity.QuotePoint{noTimestamp, noBid, point("USD", day(2), "5.10")})

	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 1, result.Written)
	assert.Len(t, result.Diagnostics, 2)
	assert.Equal(t, []string{"Moeda", "Nome", "02/01/2024"}, table.Columns)
}

func TestMergeCurrencyWithoutRow(t *testing.T) {
	log := new(mocks.MockLogger)
	log.On("Warn", "Currency has no matching row", map[string]interface{}{
		"currency": "usd",
		"points":   1,
	}).Once()

	reconciler := NewTableReconciler(time.UTC, log)
	table := newCurrencyTable()

	result := reconciler.Merge(table, "usd", []entity.QuotePoint{point("usd", day(1), "5.00")})

	assert.Equal(t, 0, result.Written)
	assert.Empty(t, result.ColumnsAdded)
	assert.Len(t, result.Diagnostics, 1)
	assert.Len(t, table.Columns, 2)
	log.AssertExpectations(t)
}

func TestMergeDuplicateRows(t *testing.T) {
	reconciler := NewTableReconciler(time.UTC, logger.Discard())
	table := entity.NewTable([]string{"Moeda"}, [][]string{{"USD"}, {"EUR"}, {"USD"}})

	result := reconciler.Merge(table, "USD", []entity.QuotePoint{point("USD", day(1), "5.00")})

	assert.Equal(t, 2, result.Written)
	assertBid(t, table, 0, 1, "5.00")
	assertBid(t, table, 2, 1, "5.00")
	assert.True(t, table.Cell(1, 1).Empty())
}

func TestMergeUsesConfiguredZone(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	reconciler := NewTableReconciler(brt, logger.Discard())
	table := newCurrencyTable()

	// 01:00 UTC on the 2nd is still the 1st in UTC-3
	ts := time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)
	reconciler.Merge(table, "EUR", []entity.QuotePoint{point("EUR", ts, "5.40")})

	assert.Equal(t, "01/01/2024", table.Columns[2])
	assertBid(t, table, 1, 2, "5.40")
}
