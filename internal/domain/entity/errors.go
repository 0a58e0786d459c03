package entity

import "errors"

var (
	ErrNetwork           = errors.New("pricing service unavailable")
	ErrMalformedResponse = errors.New("malformed pricing service response")
	ErrInvalidDateFormat = errors.New("invalid date format, expected dd/mm/yyyy")
	ErrEmptyInput        = errors.New("spreadsheet is empty or has no currencies in the first column")
	ErrInvalidRange      = errors.New("start date is after end date")
	ErrPersistence       = errors.New("failed to write output spreadsheet")
	ErrMissingField      = errors.New("required field is missing")
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrInputUnreadable   = errors.New("input spreadsheet could not be read")
	ErrReportNotFound    = errors.New("reconciliation report not found")
)
