// Package handler internal/infrastructure/handler/quote_handler.go
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/application/service"
	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// QuoteHandler handles HTTP requests for single quote lookups
type QuoteHandler struct {
	service    *service.QuoteService
	currencies []string
	logger     logger.Logger
}

// NewQuoteHandler creates a new quote handler; currencies is the list loaded at startup
func NewQuoteHandler(service *service.QuoteService, currencies []string, log logger.Logger) *QuoteHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if currencies == nil {
		currencies = []string{}
	}

	return &QuoteHandler{
		service:    service,
		currencies: currencies,
		logger:     log,
	}
}

// ListCurrencies returns the currencies offered for lookups
func (h *QuoteHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	sendJSON(w, h.logger, http.StatusOK, CurrenciesResponse{Currencies: h.currencies}, requestID)
}

// GetQuote handles looking up the bid of a currency on a dd/mm/yyyy date
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	currency := mux.Vars(r)["currency"]
	date := r.URL.Query().Get("date")

	h.logger.Info("Handling quote lookup request", map[string]interface{}{
		"request_id": requestID,
		"currency":   currency,
		"date":       date,
	})

	lookup, err := h.service.LookupQuote(r.Context(), currency, date)
	status := service.LookupStatus(lookup, err)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidDateFormat):
			h.logger.Warn("Invalid quote lookup request", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Invalid request", status, http.StatusBadRequest, requestID)
		case errors.Is(err, entity.ErrNetwork):
			h.logger.Error("Pricing service unavailable", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Pricing service unavailable", status, http.StatusServiceUnavailable, requestID)
		default:
			h.logger.Error("Unexpected error in quote lookup", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error", status, http.StatusInternalServerError, requestID)
		}
		return
	}

	if !lookup.Found {
		h.logger.Info("Quote not found", map[string]interface{}{
			"request_id": requestID,
			"currency":   lookup.Currency,
			"date":       lookup.Date,
		})
		sendErrorResponse(w, h.logger, "Quote not found", status, http.StatusNotFound, requestID)
		return
	}

	resp := QuoteResponse{
		Currency:     lookup.Currency,
		Date:         lookup.Date,
		BaseCurrency: lookup.BaseCurrency,
		Bid:          lookup.Quote.BidRaw,
		Status:       status,
	}
	if resp.Bid == "" {
		resp.Bid = lookup.Quote.Bid.Decimal.String()
	}
	if !lookup.Quote.Timestamp.IsZero() {
		resp.Timestamp = lookup.Quote.Timestamp.Format(time.RFC3339)
	}

	sendJSON(w, h.logger, http.StatusOK, resp, requestID)
}

// RegisterRoutes registers the quote handler routes
func (h *QuoteHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/currencies", h.ListCurrencies).Methods("GET")
	router.HandleFunc("/quotes/{currency}", h.GetQuote).Methods("GET")

	h.logger.Info("Quote routes registered", map[string]interface{}{
		"routes": []string{
			"GET /currencies",
			"GET /quotes/{currency}?date=dd/mm/yyyy",
		},
	})
}
