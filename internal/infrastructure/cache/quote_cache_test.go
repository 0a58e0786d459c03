package cache

import (
	"testing"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuoteCache(t *testing.T) {
	cache := NewQuoteCache(time.Hour)
	clock := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	assert.Equal(t, 0, cache.Size())

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	quote := entity.QuotePoint{
		Currency:  "USD",
		Timestamp: day.Add(18 * time.Hour),
		Bid:       decimal.NewNullDecimal(decimal.RequireFromString("4.8901")),
		BidRaw:    "4.8901",
	}

	cache.Put("USD", day, quote)
	assert.Equal(t, 1, cache.Size())

	got, ok := cache.Get("usd", day)
	assert.True(t, ok)
	assert.Equal(t, quote, got)

	_, ok = cache.Get("EUR", day)
	assert.False(t, ok)

	_, ok = cache.Get("USD", day.AddDate(0, 0, 1))
	assert.False(t, ok)

	clock = clock.Add(2 * time.Hour)
	_, ok = cache.Get("USD", day)
	assert.False(t, ok)

	assert.Equal(t, 1, cache.CleanExpired())
	assert.Equal(t, 0, cache.Size())

	cache.Put("USD", day, quote)
	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestQuoteCacheDisabled(t *testing.T) {
	cache := NewQuoteCache(0)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	cache.Put("USD", day, entity.QuotePoint{Currency: "USD"})
	_, ok := cache.Get("USD", day)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())

	var nilCache *QuoteCache
	_, ok = nilCache.Get("USD", day)
	assert.False(t, ok)
}
