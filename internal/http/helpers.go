package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
	applog "moneyrec/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes. Unrecognized
// errors become opaque 500s so storage details never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, ledger.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, core.ErrDefaultAccount),
		errors.Is(err, core.ErrLastCategory):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrMissingAccount),
		errors.Is(err, core.ErrSameAccount),
		errors.Is(err, core.ErrInsufficientFund),
		errors.Is(err, core.ErrNegativeBalance):
		status, msg = http.StatusBadRequest, err.Error()
	}

	if status == http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldError, err,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

// parsePeriod resolves the period, start and end query parameters.
// Missing period defaults to the calendar month; custom periods read
// their endpoints from start/end as YYYY-MM-DD.
func parsePeriod(r *http.Request) (core.PeriodType, time.Time, time.Time, error) {
	q := r.URL.Query()

	period := core.CalendarMonth
	if v := strings.TrimSpace(q.Get("period")); v != "" {
		period = core.PeriodType(v)
		if !period.Valid() {
			return "", time.Time{}, time.Time{}, fmt.Errorf("invalid period %q", v)
		}
	}

	var start, end time.Time
	if period == core.CustomPeriod {
		var err error
		if start, err = parseDate(q.Get("start")); err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
		}
		if end, err = parseDate(q.Get("end")); err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
		}
	}
	return period, start, end, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
