package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/cache"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL      = "https://economia.awesomeapi.com.br"
	defaultBaseCurrency = "BRL"
	latestPath          = "/json/last/"
	dailyPath           = "/json/daily/"

	endpointLatest = "latest"
	endpointDaily  = "daily"
)

// ClientConfig configures the pricing service client
type ClientConfig struct {
	BaseURL      string
	BaseCurrency string
	// CacheTTL bounds how long single-day lookups are kept in memory; zero disables caching
	CacheTTL time.Duration
	// Location is the zone timestamps are converted to; nil means time.Local
	Location *time.Location
}

// AwesomeAPIClient implements the QuoteAPI interface against an awesomeapi-compatible service
type AwesomeAPIClient struct {
	baseURL      string
	baseCurrency string
	httpClient   *http.Client
	cache        *cache.QuoteCache
	location     *time.Location
	logger       logger.Logger
	metrics      *metrics.QuoteMetrics
}

// NewAwesomeAPIClient creates a new pricing service client.
// A nil httpClient uses a client with the transport defaults and no timeout.
func NewAwesomeAPIClient(cfg ClientConfig, httpClient *http.Client, log logger.Logger, m *metrics.QuoteMetrics) *AwesomeAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = defaultBaseCurrency
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &AwesomeAPIClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		baseCurrency: strings.ToUpper(cfg.BaseCurrency),
		httpClient:   httpClient,
		cache:        cache.NewQuoteCache(cfg.CacheTTL),
		location:     cfg.Location,
		logger:       log.WithField("component", "quote_client"),
		metrics:      m,
	}
}

// BaseCurrency returns the currency every pair is quoted against
func (c *AwesomeAPIClient) BaseCurrency() string {
	return c.baseCurrency
}

// quoteRecord is one element of the latest or daily responses.
// The daily endpoint omits code/codein/name on every record but the first.
type quoteRecord struct {
	Code       string     `json:"code"`
	Codein     string     `json:"codein"`
	Name       string     `json:"name"`
	Bid        flexString `json:"bid"`
	Ask        flexString `json:"ask"`
	Timestamp  flexString `json:"timestamp"`
	CreateDate string     `json:"create_date"`
}

// flexString accepts a JSON string or number and keeps its text
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// FetchLatest retrieves the latest quote of each pair, keyed by currency code.
// Any failure is logged and yields an empty map.
func (c *AwesomeAPIClient) FetchLatest(ctx context.Context, pairs []string) map[string]entity.LatestQuote {
	latest := make(map[string]entity.LatestQuote)
	if len(pairs) == 0 {
		return latest
	}

	escaped := make([]string, len(pairs))
	for i, p := range pairs {
		escaped[i] = url.PathEscape(p)
	}
	reqURL := c.baseURL + latestPath + strings.Join(escaped, ",")

	body, err := c.get(ctx, endpointLatest, reqURL)
	if err != nil {
		c.logger.Warn("Failed to fetch latest quotes", map[string]interface{}{
			"pairs": pairs,
			"error": err.Error(),
		})
		return latest
	}

	var records map[string]quoteRecord
	if err := json.Unmarshal(body, &records); err != nil {
		c.logger.Warn("Failed to decode latest quotes", map[string]interface{}{
			"pairs": pairs,
			"error": err.Error(),
		})
		return latest
	}

	for key, rec := range records {
		code := rec.Code
		if code == "" && len(key) >= 3 {
			code = key[:3]
		}
		if code == "" {
			continue
		}

		quote := entity.LatestQuote{
			Code:   code,
			Codein: rec.Codein,
			Name:   rec.Name,
			BidRaw: string(rec.Bid),
		}
		if bid, err := decimal.NewFromString(string(rec.Bid)); err == nil {
			quote.Bid = decimal.NewNullDecimal(bid)
		}
		if ts, err := c.parseTimestamp(rec.Timestamp); err == nil {
			quote.Timestamp = ts
		}
		latest[code] = quote
	}

	c.logger.Info("Fetched latest quotes", map[string]interface{}{
		"pairs":      pairs,
		"currencies": len(latest),
	})

	return latest
}

// FetchOne retrieves the bid of one currency on a single dd/mm/yyyy date.
// found is false when the service has no usable quote for that day.
func (c *AwesomeAPIClient) FetchOne(ctx context.Context, currency, date string) (entity.QuotePoint, bool, error) {
	day, err := entity.ParseDisplayDate(date, c.location)
	if err != nil {
		return entity.QuotePoint{}, false, err
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if cached, ok := c.cache.Get(currency, day); ok {
		c.logger.Debug("Quote served from cache", map[string]interface{}{
			"currency": currency,
			"date":     date,
		})
		return cached, true, nil
	}

	body, err := c.get(ctx, endpointDaily, c.dailyURL(currency, day, day))
	if err != nil {
		return entity.QuotePoint{}, false, err
	}

	var records []quoteRecord
	if err := json.Unmarshal(body, &records); err != nil || len(records) == 0 {
		c.logger.Info("No quote found", map[string]interface{}{
			"currency": currency,
			"date":     date,
		})
		return entity.QuotePoint{}, false, nil
	}

	point, err := c.toPoint(currency, records[0])
	if err != nil || !point.Bid.Valid {
		c.logger.Info("Quote record unusable", map[string]interface{}{
			"currency": currency,
			"date":     date,
		})
		return entity.QuotePoint{}, false, nil
	}
	if point.Timestamp.IsZero() {
		point.Timestamp = day
	}

	c.cache.Put(currency, day, point)

	return point, true, nil
}

// FetchRange retrieves every daily quote of one currency between start and end, inclusive.
// An empty response yields an empty slice; a record that cannot be parsed fails the whole call.
func (c *AwesomeAPIClient) FetchRange(ctx context.Context, currency string, start, end time.Time) ([]entity.QuotePoint, error) {
	body, err := c.get(ctx, endpointDaily, c.dailyURL(currency, start, end))
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []entity.QuotePoint{}, nil
	}

	var records []quoteRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: decode daily quotes for %s: %v", entity.ErrMalformedResponse, currency, err)
	}

	points := make([]entity.QuotePoint, 0, len(records))
	for i, rec := range records {
		point, err := c.toPoint(currency, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d for %s: %w", i, currency, err)
		}
		points = append(points, point)
	}

	c.logger.Debug("Fetched daily quotes", map[string]interface{}{
		"currency": currency,
		"start":    start.Format(entity.APIDateLayout),
		"end":      end.Format(entity.APIDateLayout),
		"points":   len(points),
	})

	return points, nil
}

func (c *AwesomeAPIClient) dailyURL(currency string, start, end time.Time) string {
	query := url.Values{}
	query.Set("start_date", start.Format(entity.APIDateLayout))
	query.Set("end_date", end.Format(entity.APIDateLayout))

	pair := url.PathEscape(strings.ToUpper(currency) + "-" + c.baseCurrency)
	return c.baseURL + dailyPath + pair + "/?" + query.Encode()
}

// toPoint converts a record; absent fields are left empty, present but unparsable ones are errors
func (c *AwesomeAPIClient) toPoint(currency string, rec quoteRecord) (entity.QuotePoint, error) {
	point := entity.QuotePoint{
		Currency: currency,
		BidRaw:   string(rec.Bid),
	}

	ts, err := c.parseTimestamp(rec.Timestamp)
	if err != nil {
		return entity.QuotePoint{}, err
	}
	point.Timestamp = ts

	if rec.Bid != "" {
		bid, err := decimal.NewFromString(string(rec.Bid))
		if err != nil {
			return entity.QuotePoint{}, fmt.Errorf("%w: bid %q", entity.ErrMalformedResponse, rec.Bid)
		}
		point.Bid = decimal.NewNullDecimal(bid)
	}

	return point, nil
}

func (c *AwesomeAPIClient) parseTimestamp(raw flexString) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	seconds, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", entity.ErrMalformedResponse, raw)
	}

	return time.Unix(seconds, 0).In(c.location), nil
}

// get performs a single GET attempt and returns the body of a 2xx response
func (c *AwesomeAPIClient) get(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	c.logger.Debug("Pricing service request", map[string]interface{}{
		"endpoint": endpoint,
		"url":      reqURL,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveAPIRequest(endpoint, "network_error", time.Since(started))
		return nil, fmt.Errorf("%w: %v", entity.ErrNetwork, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveAPIRequest(endpoint, "network_error", time.Since(started))
		return nil, fmt.Errorf("%w: read response body: %v", entity.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.ObserveAPIRequest(endpoint, "http_error", time.Since(started))
		return nil, fmt.Errorf("%w: status %d, body: %s", entity.ErrNetwork, resp.StatusCode, truncate(body, 200))
	}

	c.metrics.ObserveAPIRequest(endpoint, "ok", time.Since(started))
	return body, nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
