// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-poll/ident"
	"github.com/danielhkuo/quickly-poll/ledger"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/polls"
	"github.com/danielhkuo/quickly-poll/voting"
)

// VoterHeader carries the voter token on reads.
const VoterHeader = "X-Voter-ID"

type VotingHandler struct {
	gateway *voting.Gateway
	ledger  *ledger.Ledger
	store   *polls.Store
}

func NewVotingHandler(gateway *voting.Gateway, l *ledger.Ledger, store *polls.Store) *VotingHandler {
	return &VotingHandler{gateway: gateway, ledger: l, store: store}
}

// NewVoter handles POST /voters
// Mints a voter token for clients that cannot generate their own.
func (h *VotingHandler) NewVoter(w http.ResponseWriter, r *http.Request) {
	token, err := ident.GenerateVoterToken()
	if err != nil {
		slog.Error("failed to generate voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create voter")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.NewVoterResponse{VoterID: token})
}

// SubmitVote handles POST /polls/{id}/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.RejectionResponse(w, models.ReasonInvalidInput)
		return
	}

	// Unknown polls are reported before the humanity token is spent.
	if _, err := h.store.GetPoll(r.Context(), strings.TrimSpace(pollID)); err != nil {
		if errors.Is(err, polls.ErrNotFound) {
			middleware.RejectionResponse(w, models.ReasonNotFound)
			return
		}
		slog.Error("failed to load poll for vote", "poll_id", pollID, "error", err)
		middleware.RejectionResponse(w, models.ReasonTransientStoreFailure)
		return
	}

	result := h.gateway.Submit(r.Context(), models.Submission{
		PollID:        pollID,
		OptionID:      req.OptionID,
		VoterID:       req.VoterID,
		HumanityToken: req.HumanityToken,
		SourceAddr:    middleware.GetClientIP(r),
	})

	if !result.Accepted() {
		middleware.RejectionResponse(w, result.Reason)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		VoteID:  result.Vote.ID,
		PollID:  result.Vote.PollID,
		Message: "Vote recorded",
	})
}

// GetMyVote handles GET /polls/{id}/votes/me
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	voterID := strings.TrimSpace(r.Header.Get(VoterHeader))
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, VoterHeader+" header is required")
		return
	}

	if _, err := h.store.GetPoll(r.Context(), pollID); err != nil {
		if errors.Is(err, polls.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
			return
		}
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	vote, found, err := h.ledger.LookupVote(r.Context(), pollID, voterID)
	if err != nil {
		slog.Error("failed to look up vote", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Could not read your vote right now")
		return
	}

	if !found {
		middleware.JSONResponse(w, http.StatusOK, models.MyVoteResponse{HasVoted: false})
		return
	}

	votedAt := vote.CreatedAt
	middleware.JSONResponse(w, http.StatusOK, models.MyVoteResponse{
		HasVoted: true,
		OptionID: vote.OptionID,
		VotedAt:  &votedAt,
	})
}
