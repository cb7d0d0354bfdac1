package main

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Simplici0/payout/internal/ratecard"
)

func (s *server) handleRateCardGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rateCard.Snapshot())
}

// handleRateCardReplace imports a whole rate card (JSON or YAML body),
// persists it and swaps the in-memory snapshot.
func (s *server) handleRateCardReplace(w http.ResponseWriter, r *http.Request) {
	table, err := ratecard.DecodeTable(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validate.Struct(table); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.rateCards.Replace(r.Context(), table); err != nil {
		s.logger.Error("replace rate card", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store rate card")
		return
	}
	s.rateCard.Replace(table)

	s.logger.Info("rate card imported", zap.Int("rules", len(table.Rules)), zap.Bool("enabled", table.Enabled))
	writeJSON(w, http.StatusOK, s.rateCard.Snapshot())
}

type rateCardEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *server) handleRateCardEnabled(w http.ResponseWriter, r *http.Request) {
	var req rateCardEnabledRequest
	if err := s.decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.rateCards.SetEnabled(r.Context(), req.Enabled); err != nil {
		s.logger.Error("toggle rate card", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update rate card")
		return
	}
	s.rateCard.SetEnabled(req.Enabled)

	writeJSON(w, http.StatusOK, s.rateCard.Snapshot())
}

func (s *server) handleRateCardClear(w http.ResponseWriter, r *http.Request) {
	if err := s.rateCards.Clear(r.Context()); err != nil {
		s.logger.Error("clear rate card", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to clear rate card")
		return
	}
	s.rateCard.Replace(ratecard.OverrideTable{})

	s.logger.Info("rate card cleared")
	w.WriteHeader(http.StatusNoContent)
}
