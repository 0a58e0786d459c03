package entity

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DisplayDateLayout is the day/month/year layout used by operators and column headers
	DisplayDateLayout = "02/01/2006"
	// APIDateLayout is the layout of start_date/end_date on the pricing service
	APIDateLayout = "20060102"

	// parseDateLayout accepts one or two digit days and months
	parseDateLayout = "2/1/2006"
)

// ParseDisplayDate parses a dd/mm/yyyy string as a calendar date in loc
func ParseDisplayDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDateFormat)
	}

	date, err := time.ParseInLocation(parseDateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
	}

	return date, nil
}

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseDateRange parses both ends of a range and validates their order
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	startDate, err := ParseDisplayDate(start, loc)
	if err != nil {
		return DateRange{}, err
	}

	endDate, err := ParseDisplayDate(end, loc)
	if err != nil {
		return DateRange{}, err
	}

	r := DateRange{Start: startDate, End: endDate}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}

	return r, nil
}

// Validate ensures the range is not inverted
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			r.Start.Format(DisplayDateLayout), r.End.Format(DisplayDateLayout))
	}
	return nil
}
