package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/middleware"
	"github.com/Dan9191/cashflow-service/internal/models"
)

// ForecastService is the business logic the handlers delegate to
type ForecastService interface {
	ListRecurringBills(ctx context.Context, userID int64, r *models.DateRange) (*models.RecurringBillsResponse, error)
	ForecastCashFlow(ctx context.Context, userID int64, months int) (*models.CashFlowForecast, error)
}

type Handler struct {
	svc ForecastService
	log *logrus.Logger
}

func NewHandler(svc ForecastService, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RecurringBills handles the recurring-bill listing. The window is either
// from/to dates or a number of months ending today.
func (h *Handler) RecurringBills(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, models.ErrUnauthorized)
		return
	}

	dr, err := parseRange(r, time.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp, err := h.svc.ListRecurringBills(r.Context(), userID, dr)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CashFlowForecast handles the daily balance forecast
func (h *Handler) CashFlowForecast(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, models.ErrUnauthorized)
		return
	}

	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m <= 0 {
			h.writeError(w, models.InputErrorf("months must be a positive integer, got %q", raw))
			return
		}
		months = m
	}

	resp, err := h.svc.ForecastCashFlow(r.Context(), userID, months)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseRange reads from/to or months from the query. It returns nil when
// neither is given so the service applies its default window.
func parseRange(r *http.Request, now time.Time) (*models.DateRange, error) {
	q := r.URL.Query()
	from, to, monthsRaw := q.Get("from"), q.Get("to"), q.Get("months")

	switch {
	case from != "" || to != "":
		if monthsRaw != "" {
			return nil, models.InputErrorf("use either from/to or months, not both")
		}
		f, err := time.Parse(models.DateLayout, from)
		if err != nil {
			return nil, models.InputErrorf("invalid from date %q", from)
		}
		t, err := time.Parse(models.DateLayout, to)
		if err != nil {
			return nil, models.InputErrorf("invalid to date %q", to)
		}
		// to is inclusive in the API
		dr := models.DateRange{From: f, To: t.AddDate(0, 0, 1)}
		if err := dr.Validate(); err != nil {
			return nil, err
		}
		return &dr, nil
	case monthsRaw != "":
		months, err := strconv.Atoi(monthsRaw)
		if err != nil || months <= 0 {
			return nil, models.InputErrorf("months must be a positive integer, got %q", monthsRaw)
		}
		today := forecast.Day(now)
		return &models.DateRange{From: today.AddDate(0, -months, 0), To: today.AddDate(0, 0, 1)}, nil
	default:
		return nil, nil
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		h.log.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
