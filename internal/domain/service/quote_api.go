package service

import (
	"context"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
)

// QuoteAPI defines the interface for interacting with the pricing service
type QuoteAPI interface {
	// FetchLatest returns the latest quote per currency for the given pairs; empty on failure
	FetchLatest(ctx context.Context, pairs []string) map[string]entity.LatestQuote

	// FetchOne returns the bid of one currency on one dd/mm/yyyy date
	FetchOne(ctx context.Context, currency, date string) (entity.QuotePoint, bool, error)

	// FetchRange returns every daily quote of one currency between start and end, inclusive
	FetchRange(ctx context.Context, currency string, start, end time.Time) ([]entity.QuotePoint, error)
}
