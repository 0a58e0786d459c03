// Command quotes looks up single quotes and reconciles spreadsheets from the terminal.
//
//	quotes -list
//	quotes -currency USD -date 15/03/2024
//	quotes -file rates.xlsx -start 01/03/2024 -end 15/03/2024
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/damon-houk/fx-quote-reconciler/internal/application/service"
	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/domain/repository"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/api"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/config"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/db"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/middleware"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/spreadsheet"
	"github.com/google/uuid"
)

type options struct {
	list     bool
	currency string
	date     string
	file     string
	start    string
	end      string
}

func main() {
	var opts options
	flag.BoolVar(&opts.list, "list", false, "print the currencies available for lookups")
	flag.StringVar(&opts.currency, "currency", "", "currency code for a single lookup, e.g. USD")
	flag.StringVar(&opts.date, "date", "", "lookup date (dd/mm/yyyy)")
	flag.StringVar(&opts.file, "file", "", "xlsx workbook whose first column holds currency codes")
	flag.StringVar(&opts.start, "start", "", "first date of the reconciliation range (dd/mm/yyyy)")
	flag.StringVar(&opts.end, "end", "", "last date of the reconciliation range (dd/mm/yyyy)")
	flag.Parse()

	os.Exit(run(opts))
}

func run(opts options) int {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	// Logs go to stderr so stdout carries only the status lines
	level, _ := logger.ParseLevel(cfg.Log.Level)
	log := logger.NewJSONLogger(os.Stderr, level)
	logger.SetDefaultLogger(log)

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	quoteAPI := api.NewAwesomeAPIClient(api.ClientConfig{
		BaseURL:      cfg.API.BaseURL,
		BaseCurrency: cfg.API.BaseCurrency,
		CacheTTL:     cfg.API.CacheTTL,
		Location:     loc,
	}, &http.Client{Timeout: cfg.API.Timeout}, log, nil)
	quoteService := service.NewQuoteService(quoteAPI, quoteAPI.BaseCurrency(), log)

	ctx := middleware.WithRequestID(context.Background(), uuid.New().String())

	switch {
	case opts.list:
		currencies := quoteService.LoadCurrencies(ctx, cfg.Pairs())
		if len(currencies) == 0 {
			fmt.Println("No currencies available. Check the connection to the pricing service.")
			return 1
		}
		fmt.Println(strings.Join(currencies, "\n"))
		return 0

	case opts.file != "":
		var reports repository.ReportRepository
		if cfg.Journal.Enabled {
			closeJournal, repo := openJournal(cfg.Journal.Dir, log)
			defer closeJournal()
			reports = repo
		}

		reconciliationService := service.NewReconciliationService(quoteAPI,
			spreadsheet.NewXLSXTableRepository(log), reports,
			service.ReconciliationConfig{OutputSuffix: cfg.Workbook.OutputSuffix, Location: loc},
			log, nil)

		report, err := reconciliationService.ReconcileFile(ctx, opts.file, opts.start, opts.end)
		fmt.Println(service.ReconcileStatus(report, err))
		if err != nil {
			return 1
		}
		printOutcomes(report)
		return 0

	case opts.currency != "" || opts.date != "":
		lookup, err := quoteService.LookupQuote(ctx, opts.currency, opts.date)
		fmt.Println(service.LookupStatus(lookup, err))
		if err != nil || !lookup.Found {
			return 1
		}
		return 0
	}

	flag.Usage()
	return 2
}

// openJournal opens the report journal; a journal that cannot be opened only costs the history
func openJournal(dir string, log logger.Logger) (func(), repository.ReportRepository) {
	noop := func() {}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warn("Journal unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
		return noop, nil
	}

	badgerDB, err := db.Open(dir)
	if err != nil {
		log.Warn("Journal unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
		return noop, nil
	}

	return func() { badgerDB.Close() }, db.NewBadgerReportRepository(badgerDB)
}

func printOutcomes(report *entity.ReconciliationReport) {
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("  %-6s %-9s points=%d written=%d", o.Currency, o.Status, o.Points, o.Written)
		if o.Error != "" {
			line += " error=" + o.Error
		}
		fmt.Println(line)
	}
}
