package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/fx-quote-reconciler/internal/application/service"
	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// ReconciliationHandler handles HTTP requests for spreadsheet reconciliation
type ReconciliationHandler struct {
	service *service.ReconciliationService
	logger  logger.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(service *service.ReconciliationService, log logger.Logger) *ReconciliationHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ReconciliationHandler{
		service: service,
		logger:  log,
	}
}

// Reconcile runs a reconciliation to completion and returns its report.
// The batch runs on a context detached from the request: a dropped client
// does not abort a half-merged workbook.
func (h *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid reconciliation request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"Body must be JSON with file_path, start_date and end_date", http.StatusBadRequest, requestID)
		return
	}

	h.logger.Info("Handling reconciliation request", map[string]interface{}{
		"request_id": requestID,
		"file_path":  req.FilePath,
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	})

	ctx := context.WithoutCancel(r.Context())
	report, err := h.service.ReconcileFile(ctx, req.FilePath, req.StartDate, req.EndDate)
	status := service.ReconcileStatus(report, err)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrMissingField),
			errors.Is(err, entity.ErrUnsupportedFormat),
			errors.Is(err, entity.ErrInputUnreadable),
			errors.Is(err, entity.ErrEmptyInput),
			errors.Is(err, entity.ErrInvalidDateFormat),
			errors.Is(err, entity.ErrInvalidRange):
			h.logger.Warn("Reconciliation rejected", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Invalid reconciliation request", status, http.StatusBadRequest, requestID)
		case errors.Is(err, entity.ErrPersistence):
			h.logger.Error("Reconciliation could not be saved", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Failed to save spreadsheet", status, http.StatusInternalServerError, requestID)
		default:
			h.logger.Error("Unexpected error in reconciliation", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			sendErrorResponse(w, h.logger, "Internal server error", status, http.StatusInternalServerError, requestID)
		}
		return
	}

	sendJSON(w, h.logger, http.StatusOK, newReconcileResponse(report, status), requestID)
}

// GetReport handles retrieving a journaled reconciliation report by ID
func (h *ReconciliationHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	report, err := h.service.Report(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrReportNotFound) {
			h.logger.Warn("Report not found", map[string]interface{}{
				"request_id": requestID,
				"id":         id,
			})
			sendErrorResponse(w, h.logger, "Report not found",
				"The requested reconciliation report could not be found", http.StatusNotFound, requestID)
			return
		}

		h.logger.Error("Unexpected error in get report", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while retrieving the report", http.StatusInternalServerError, requestID)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, newReconcileResponse(report, ""), requestID)
}

// RegisterRoutes registers the reconciliation handler routes
func (h *ReconciliationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reconciliations", h.Reconcile).Methods("POST")
	router.HandleFunc("/reconciliations/{id}", h.GetReport).Methods("GET")

	h.logger.Info("Reconciliation routes registered", map[string]interface{}{
		"routes": []string{
			"POST /reconciliations",
			"GET /reconciliations/{id}",
		},
	})
}
