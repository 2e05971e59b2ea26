package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"StockDash/internal/calculator"
	"StockDash/internal/collector"
	"StockDash/internal/dashboard"
	"StockDash/internal/export"
)

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, errorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		RequestID: requestID(r),
	})
}

// statusOf maps a build error to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidRequest),
		errors.Is(err, calculator.ErrInvalidParameter),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, gobreaker.ErrOpenState):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusNotFound {
		msg = "No data returned. Check ticker or date range."
	}
	zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("request failed")
	writeError(w, r, status, msg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default":   s.ticker,
		"watchlist": s.watchlist,
		"presets":   collector.Presets,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.builder.Build(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	req, err := s.parseRequest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.builder.Build(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, d.Frame); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ExportsTotal.WithLabelValues(format).Inc()
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(d.Ticker, format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// parseRequest reads a dashboard request from the path and query string.
func (s *Server) parseRequest(r *http.Request) (dashboard.Request, error) {
	q := r.URL.Query()
	req := dashboard.Request{
		Ticker:    mux.Vars(r)["ticker"],
		Preset:    q.Get("preset"),
		ChartType: q.Get("chart"),
	}
	if req.Ticker == "" {
		req.Ticker = s.ticker
	}

	var err error
	if req.Start, err = parseDate(q.Get("start")); err != nil {
		return req, fmt.Errorf("%w: start: %v", dashboard.ErrInvalidRequest, err)
	}
	if req.End, err = parseDate(q.Get("end")); err != nil {
		return req, fmt.Errorf("%w: end: %v", dashboard.ErrInvalidRequest, err)
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"ma7", &req.ShowMA7},
		{"ma30", &req.ShowMA30},
		{"ema", &req.ShowEMA},
		{"rsi", &req.RSI},
		{"bollinger", &req.Bollinger},
		{"macd", &req.MACD},
		{"weekly", &req.Weekly},
		{"log", &req.LogScale},
	}
	for _, f := range flags {
		if *f.dst, err = parseBool(q.Get(f.name)); err != nil {
			return req, fmt.Errorf("%w: %s: %v", dashboard.ErrInvalidRequest, f.name, err)
		}
	}
	if v := q.Get("normalize"); v != "" {
		n, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: normalize: %v", dashboard.ErrInvalidRequest, err)
		}
		req.Normalize = &n
	}

	for _, v := range q["compare"] {
		req.Compare = append(req.Compare, strings.Split(v, ",")...)
	}
	return req, nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(dashboard.DateLayout, v)
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
