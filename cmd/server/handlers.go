package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/storage"
)

const (
	maxJSONBody  = 1 << 20
	errNonFinite = "result is not a finite amount; check the margin percent"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before touching the response so that encoding failures
// still produce a status and an error body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON decodes the body into dst and validates it.
func (s *server) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return s.validate.Struct(dst)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	valid, err := s.auth.validateCredentials(r.Context(), email, r.FormValue("password"))
	if err != nil {
		s.logger.Error("authentication error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "authentication error")
		return
	}
	if !valid {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.auth.setSessionCookie(w, email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type forwardRequest struct {
	pricing.Fields
	Price float64 `json:"price" validate:"gte=0,lte=1000000000"`
}

func (s *server) handleForward(w http.ResponseWriter, r *http.Request) {
	var req forwardRequest
	if err := s.decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, err := req.Fields.Context(s.rateCard.Snapshot())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdown, err := s.calc.Evaluate(req.Price, ctx)
	if errors.Is(err, pricing.ErrUnsupportedMarketplace) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to evaluate price")
		return
	}
	if !breakdown.Finite() {
		writeError(w, http.StatusUnprocessableEntity, errNonFinite)
		return
	}

	writeJSON(w, http.StatusOK, breakdown)
}

type quoteRequest struct {
	pricing.Fields
	// Target is the desired settlement. When zero, Cost plus the stored
	// buffers determines it.
	Target float64 `json:"target" validate:"gte=0,lte=1000000000"`
	Cost   float64 `json:"cost" validate:"gte=0,lte=1000000000"`
	Save   bool    `json:"save"`
	Title  string  `json:"title" validate:"max=200"`
}

type quoteResponse struct {
	ID        string            `json:"id,omitempty"`
	Target    float64           `json:"target"`
	Cost      float64           `json:"cost,omitempty"`
	Profit    *float64          `json:"profit,omitempty"`
	ROI       *float64          `json:"roi,omitempty"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Target <= 0 && req.Cost <= 0 {
		writeError(w, http.StatusBadRequest, "target or cost must be greater than 0")
		return
	}

	ctx, err := req.Fields.Context(s.rateCard.Snapshot())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	target := req.Target
	if target <= 0 {
		settings, err := s.buffers.Get(r.Context())
		if err != nil {
			s.logger.Error("load buffers", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load buffers")
			return
		}
		target = pricing.TargetFromCost(req.Cost, settings.Buffers, settings.MarkupEnabled)
	}

	breakdown, err := s.calc.Quote(target, ctx)
	if errors.Is(err, pricing.ErrUnsupportedMarketplace) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to quote")
		return
	}
	if !breakdown.Finite() {
		writeError(w, http.StatusUnprocessableEntity, errNonFinite)
		return
	}

	resp := quoteResponse{Target: target, Cost: req.Cost, Breakdown: breakdown}
	if req.Cost > 0 {
		profit, roi := pricing.Profit(breakdown.Settlement, req.Cost)
		resp.Profit, resp.ROI = &profit, &roi
	}

	if req.Save {
		saved, err := s.quotes.Save(r.Context(), storage.Quote{
			Title:        s.sanitize.Sanitize(strings.TrimSpace(req.Title)),
			Marketplace:  string(ctx.Marketplace),
			Target:       target,
			SellingPrice: breakdown.SellingPrice,
			Settlement:   breakdown.Settlement,
			Breakdown:    breakdown,
		})
		if err != nil {
			s.logger.Error("save quote", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save quote")
			return
		}
		resp.ID = saved.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.quotes.List(r.Context(), query)
	if err != nil {
		s.logger.Error("list quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	quote, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	quote, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, renderQuoteText(quote))
}

func (s *server) loadQuote(w http.ResponseWriter, r *http.Request) (storage.Quote, bool) {
	quote, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quote not found")
		return storage.Quote{}, false
	}
	if err != nil {
		s.logger.Error("load quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return storage.Quote{}, false
	}
	return quote, true
}

func (s *server) handleBuffersGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.buffers.Get(r.Context())
	if err != nil {
		s.logger.Error("load buffers", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load buffers")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *server) handleBuffersUpdate(w http.ResponseWriter, r *http.Request) {
	var settings storage.BufferSettings
	if err := s.decodeJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.buffers.Update(r.Context(), settings); err != nil {
		s.logger.Error("update buffers", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update buffers")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
