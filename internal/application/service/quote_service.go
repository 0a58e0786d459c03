package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	domainservice "github.com/damon-houk/fx-quote-reconciler/internal/domain/service"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/middleware"
)

var (
	errMissingCurrency = fmt.Errorf("%w: currency", entity.ErrMissingField)
	errMissingDate     = fmt.Errorf("%w: date", entity.ErrMissingField)
)

// QuoteLookup is the result of a single currency/date lookup
type QuoteLookup struct {
	Currency     string            `json:"currency"`
	Date         string            `json:"date"`
	BaseCurrency string            `json:"base_currency"`
	Found        bool              `json:"found"`
	Quote        entity.QuotePoint `json:"quote"`
}

// QuoteService handles single-day lookups and the selectable currency list
type QuoteService struct {
	quotes       domainservice.QuoteAPI
	baseCurrency string
	logger       logger.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(quotes domainservice.QuoteAPI, baseCurrency string, log logger.Logger) *QuoteService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &QuoteService{
		quotes:       quotes,
		baseCurrency: strings.ToUpper(baseCurrency),
		logger:       log,
	}
}

// LoadCurrencies returns the sorted, distinct currency codes quoted for pairs.
// It is called once at startup; an unreachable service yields an empty list.
func (s *QuoteService) LoadCurrencies(ctx context.Context, pairs []string) []string {
	latest := s.quotes.FetchLatest(ctx, pairs)

	currencies := make([]string, 0, len(latest))
	seen := make(map[string]struct{}, len(latest))
	for code := range latest {
		if len(code) > 3 {
			code = code[:3]
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		currencies = append(currencies, code)
	}
	sort.Strings(currencies)

	s.logger.Info("Currency list loaded", map[string]interface{}{
		"pairs":      len(pairs),
		"currencies": currencies,
	})

	return currencies
}

// LookupQuote fetches the bid of currency on a dd/mm/yyyy date.
// A day without quotes is not an error: the lookup comes back with Found false.
func (s *QuoteService) LookupQuote(ctx context.Context, currency, date string) (*QuoteLookup, error) {
	requestID := middleware.GetRequestID(ctx)

	currency = strings.ToUpper(strings.TrimSpace(currency))
	date = strings.TrimSpace(date)

	if currency == "" {
		return nil, errMissingCurrency
	}
	if date == "" {
		return nil, errMissingDate
	}

	s.logger.Info("Looking up quote", map[string]interface{}{
		"request_id": requestID,
		"currency":   currency,
		"date":       date,
	})

	point, found, err := s.quotes.FetchOne(ctx, currency, date)
	if err != nil {
		s.logger.Error("Quote lookup failed", map[string]interface{}{
			"request_id": requestID,
			"currency":   currency,
			"date":       date,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to look up quote: %w", err)
	}

	lookup := &QuoteLookup{
		Currency:     currency,
		Date:         date,
		BaseCurrency: s.baseCurrency,
		Found:        found,
		Quote:        point,
	}

	s.logger.Info("Quote lookup completed", map[string]interface{}{
		"request_id": requestID,
		"currency":   currency,
		"date":       date,
		"found":      found,
		"bid":        point.BidRaw,
	})

	return lookup, nil
}
