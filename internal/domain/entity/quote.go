package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotePoint is one bid for a currency against the base currency at a point in time
type QuotePoint struct {
	Currency  string              `json:"currency"`
	Timestamp time.Time           `json:"timestamp"`
	Bid       decimal.NullDecimal `json:"bid"`
	// BidRaw keeps the decimal string exactly as the pricing service sent it
	BidRaw string `json:"bid_raw,omitempty"`
}

// Complete reports whether the point carries both a timestamp and a bid
func (p QuotePoint) Complete() bool {
	return !p.Timestamp.IsZero() && p.Bid.Valid
}

// LatestQuote is the most recent quote of a pair as returned by the latest endpoint
type LatestQuote struct {
	Code      string              `json:"code"`
	Codein    string              `json:"codein"`
	Name      string              `json:"name"`
	Bid       decimal.NullDecimal `json:"bid"`
	BidRaw    string              `json:"bid_raw,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}
