// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/polls"
)

type PollHandler struct {
	store *polls.Store
	cfg   cliparse.Config
}

func NewPollHandler(store *polls.Store, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: store, cfg: cfg}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	pwo, err := h.store.CreatePoll(r.Context(), req.Question, req.Options)
	if errors.Is(err, polls.ErrInvalidPoll) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pwo.Poll.ID, "options", len(pwo.Options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:    pwo.Poll.ID,
		ShareSlug: pwo.Poll.ShareSlug,
		ShareURL:  h.shareURL(pwo.Poll.ShareSlug),
		Options:   pwo.Options,
	})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	pwo, err := h.store.GetPollWithOptions(r.Context(), pollID)
	h.writePoll(w, pwo, err)
}

// GetPollBySlug handles GET /p/{slug}
func (h *PollHandler) GetPollBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	poll, err := h.store.GetPollBySlug(r.Context(), slug)
	if err != nil {
		h.writePoll(w, models.PollWithOptions{}, err)
		return
	}

	pwo, err := h.store.GetPollWithOptions(r.Context(), poll.ID)
	h.writePoll(w, pwo, err)
}

func (h *PollHandler) writePoll(w http.ResponseWriter, pwo models.PollWithOptions, err error) {
	if errors.Is(err, polls.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, pwo)
}

func (h *PollHandler) shareURL(slug string) string {
	return h.cfg.PublicBaseURL + "/p/" + slug
}
