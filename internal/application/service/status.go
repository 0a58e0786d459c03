package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
)

// LookupStatus renders the operator-facing message for a single lookup
func LookupStatus(lookup *QuoteLookup, err error) string {
	switch {
	case errors.Is(err, errMissingCurrency):
		return "Please select a currency."
	case errors.Is(err, errMissingDate):
		return "Please select a date."
	case errors.Is(err, entity.ErrInvalidDateFormat):
		return "Invalid date format. Please select the date again (dd/mm/yyyy)."
	case errors.Is(err, entity.ErrNetwork):
		return fmt.Sprintf("Connection error while fetching the quote: %v", err)
	case err != nil:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	case lookup == nil || !lookup.Found:
		if lookup == nil {
			return "No quote found."
		}
		return fmt.Sprintf("No quote found for %s on %s.", lookup.Currency, lookup.Date)
	}

	return fmt.Sprintf("The %s quote on %s was %s %s.",
		lookup.Currency, lookup.Date, lookup.BaseCurrency, lookup.Quote.Bid.Decimal.StringFixed(4))
}

// ReconcileStatus renders the operator-facing message for a reconciliation run
func ReconcileStatus(report *entity.ReconciliationReport, err error) string {
	switch {
	case errors.Is(err, errMissingFile):
		return "Please select an Excel file first."
	case errors.Is(err, entity.ErrUnsupportedFormat):
		return "Unsupported file format. Please select an .xlsx workbook."
	case errors.Is(err, entity.ErrInputUnreadable):
		return "Error: file not found or unreadable. Please select a valid Excel file."
	case errors.Is(err, entity.ErrEmptyInput):
		return "The selected Excel file is empty or has no currencies in the first column."
	case errors.Is(err, entity.ErrInvalidDateFormat):
		return "Invalid date format. Please use dd/mm/yyyy."
	case errors.Is(err, entity.ErrInvalidRange):
		return "The start date cannot be after the end date."
	case errors.Is(err, entity.ErrPersistence):
		return fmt.Sprintf("Could not save the updated file: %v. Check that it is not open in another program.", err)
	case err != nil:
		return fmt.Sprintf("An error occurred during the update: %v. Check the Excel file format.", err)
	case report == nil:
		return "Nothing was reconciled."
	}

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Sprintf("Quotes partially updated and saved to: %s (failed: %s)",
			report.OutputPath, strings.Join(failed, ", "))
	}

	return fmt.Sprintf("Quotes updated and saved to: %s", report.OutputPath)
}
