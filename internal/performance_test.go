package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/application/service"
	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/api"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/db"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newDailyQuoteServer serves one quote at noon UTC for every day of the requested range
func newDailyQuoteServer(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)

		start, err := time.Parse(entity.APIDateLayout, r.URL.Query().Get("start_date"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		end, err := time.Parse(entity.APIDateLayout, r.URL.Query().Get("end_date"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		pair := strings.Trim(strings.TrimPrefix(r.URL.Path, "/json/daily/"), "/")
		var records []map[string]string
		for day := end; !day.Before(start); day = day.AddDate(0, 0, -1) {
			records = append(records, map[string]string{
				"code":      strings.Split(pair, "-")[0],
				"bid":       fmt.Sprintf("5.%04d", day.YearDay()),
				"timestamp": fmt.Sprintf("%d", day.Add(12*time.Hour).Unix()),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	}))
	t.Cleanup(server.Close)

	return server
}

func writeLargeWorkbook(t *testing.T, currencies, rowsPerCurrency int) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter("Sheet1")
	require.NoError(t, err)
	require.NoError(t, sw.SetRow("A1", []interface{}{"Moeda", "Descrição"}))

	line := 2
	for i := 0; i < rowsPerCurrency; i++ {
		for c := 0; c < currencies; c++ {
			cell, err := excelize.CoordinatesToCellName(1, line)
			require.NoError(t, err)
			require.NoError(t, sw.SetRow(cell, []interface{}{fmt.Sprintf("X%02d", c), fmt.Sprintf("row %d", line)}))
			line++
		}
	}
	require.NoError(t, sw.Flush())

	path := filepath.Join(t.TempDir(), "large.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestPerformance(t *testing.T) {
	// Skip in short mode or CI
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	log := logger.Discard()
	var hits int64
	server := newDailyQuoteServer(t, &hits)

	client := api.NewAwesomeAPIClient(api.ClientConfig{
		BaseURL:  server.URL,
		CacheTTL: time.Minute,
		Location: time.UTC,
	}, &http.Client{Timeout: 5 * time.Second}, log, nil)

	badgerDB, err := db.Open("")
	require.NoError(t, err)
	defer badgerDB.Close()

	// Performance test configuration
	numCurrencies := 20
	rowsPerCurrency := 50
	days := 30

	t.Run("Large Reconciliation", func(t *testing.T) {
		path := writeLargeWorkbook(t, numCurrencies, rowsPerCurrency)
		reconciler := service.NewReconciliationService(client,
			spreadsheet.NewXLSXTableRepository(log), db.NewBadgerReportRepository(badgerDB),
			service.ReconciliationConfig{Location: time.UTC}, log, nil)

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, days-1)
		atomic.StoreInt64(&hits, 0)

		startTime := time.Now()
		report, err := reconciler.ReconcileFile(context.Background(), path,
			start.Format(entity.DisplayDateLayout), end.Format(entity.DisplayDateLayout))
		duration := time.Since(startTime)
		require.NoError(t, err)

		assert.Equal(t, int64(numCurrencies), atomic.LoadInt64(&hits), "one request per distinct currency")
		assert.Len(t, report.ColumnsAdded, days)
		assert.Empty(t, report.Failed())
		assert.Equal(t, numCurrencies*rowsPerCurrency*days, report.CellsWritten())

		cellsPerSec := float64(report.CellsWritten()) / duration.Seconds()
		t.Logf("Reconciliation: %d rows x %d days in %v (%.0f cells/sec)",
			numCurrencies*rowsPerCurrency, days, duration, cellsPerSec)
	})

	t.Run("Concurrent Lookups", func(t *testing.T) {
		quoteService := service.NewQuoteService(client, client.BaseCurrency(), log)
		atomic.StoreInt64(&hits, 0)

		concurrency := 10
		lookupsPerWorker := 20
		currencies := []string{"X00", "X01", "X02", "X03"}
		dates := []string{"02/01/2024", "03/01/2024"}

		var notFound int64
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)
		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				ctx := context.Background()
				for j := 0; j < lookupsPerWorker; j++ {
					currency := currencies[(workerID+j)%len(currencies)]
					date := dates[j%len(dates)]

					lookup, err := quoteService.LookupQuote(ctx, currency, date)
					if err != nil || !lookup.Found {
						atomic.AddInt64(&notFound, 1)
					}
				}
			}(i)
		}
		wg.Wait()
		duration := time.Since(startTime)

		total := concurrency * lookupsPerWorker
		assert.Zero(t, atomic.LoadInt64(&notFound))
		assert.Less(t, atomic.LoadInt64(&hits), int64(total), "repeat lookups are served from the cache")

		throughput := float64(total) / duration.Seconds()
		t.Logf("Lookups: %d in %v (%.2f lookups/sec, %d upstream requests)",
			total, duration, throughput, atomic.LoadInt64(&hits))
	})
}
