package main

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/Simplici0/payout/internal/batch"
	"github.com/Simplici0/payout/internal/pricing"
)

const maxBatchBody = 10 << 20

func parseMarketplaceParam(r *http.Request) (pricing.Marketplace, error) {
	raw := r.URL.Query().Get("marketplace")
	if raw == "" {
		return pricing.Myntra, nil
	}
	return pricing.ParseMarketplace(raw)
}

// handleBatch prices a CSV sheet and responds with the detailed CSV report.
// ?buffers=false disables the cost markup regardless of stored settings.
func (s *server) handleBatch(w http.ResponseWriter, r *http.Request) {
	marketplace, err := parseMarketplaceParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, skipped, err := batch.ReadRows(http.MaxBytesReader(w, r.Body, maxBatchBody))
	if errors.Is(err, batch.ErrMissingCost) {
		writeError(w, http.StatusBadRequest, "sheet has no cost column")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := s.buffers.Get(r.Context())
	if err != nil {
		s.logger.Error("load buffers", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load buffers")
		return
	}
	enabled := settings.MarkupEnabled
	if raw := r.URL.Query().Get("buffers"); raw != "" {
		if enabled, err = strconv.ParseBool(raw); err != nil {
			writeError(w, http.StatusBadRequest, "buffers must be a boolean")
			return
		}
	}

	runID := ulid.Make().String()
	results, err := batch.Process(r.Context(), s.calc, rows, batch.Options{
		Marketplace:    marketplace,
		Buffers:        settings.Buffers,
		BuffersEnabled: enabled,
		Overrides:      s.rateCard.Snapshot(),
	})
	if err != nil {
		s.logger.Error("batch run failed", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "batch processing failed")
		return
	}

	var report bytes.Buffer
	if err := batch.WriteReport(&report, marketplace, results, enabled); err != nil {
		s.logger.Error("write batch report", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to write report")
		return
	}

	s.logger.Info("batch run complete",
		zap.String("run_id", runID),
		zap.String("marketplace", string(marketplace)),
		zap.Int("rows", len(results)),
		zap.Int("skipped", skipped),
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+string(marketplace)+`_Detailed_Report.csv"`)
	w.Header().Set("X-Batch-Run", runID)
	w.Header().Set("X-Batch-Skipped", strconv.Itoa(skipped))
	_, _ = w.Write(report.Bytes())
}

func (s *server) handleBatchTemplate(w http.ResponseWriter, r *http.Request) {
	marketplace, err := parseMarketplaceParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+string(marketplace)+`_Template.csv"`)
	if err := batch.WriteTemplate(w, marketplace); err != nil {
		s.logger.Error("write template", zap.Error(err))
	}
}
