// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/polls"
	"github.com/danielhkuo/quickly-poll/tally"
)

type ResultsHandler struct {
	agg *tally.Aggregator
}

func NewResultsHandler(agg *tally.Aggregator) *ResultsHandler {
	return &ResultsHandler{agg: agg}
}

// GetTally handles GET /polls/{id}/tally
// Results are always visible; the tally is recomputed on every request.
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	t, err := h.agg.ComputeTally(r.Context(), pollID)
	if errors.Is(err, polls.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to compute tally", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute tally")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, t)
}
