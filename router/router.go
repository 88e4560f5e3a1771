// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/handlers"
	"github.com/danielhkuo/quickly-poll/hub"
	"github.com/danielhkuo/quickly-poll/humanity"
	"github.com/danielhkuo/quickly-poll/ledger"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/polls"
	"github.com/danielhkuo/quickly-poll/tally"
	"github.com/danielhkuo/quickly-poll/voting"
)

// Deps are the long-lived collaborators shared by all handlers.
type Deps struct {
	DB       *sql.DB
	Config   cliparse.Config
	Hub      *hub.Hub
	Verifier humanity.Verifier
}

func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	store := polls.NewStore(deps.DB, deps.Config.PollSlugSalt)
	votes := ledger.New(deps.DB)
	gateway := voting.NewGateway(deps.Verifier, votes, deps.Hub)

	pollHandler := handlers.NewPollHandler(store, deps.Config)
	votingHandler := handlers.NewVotingHandler(gateway, votes, store)
	resultsHandler := handlers.NewResultsHandler(tally.New(deps.DB))
	liveHandler := handlers.NewLiveHandler(deps.Hub, store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Polls
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("GET /p/{slug}", middleware.WithLogging(pollHandler.GetPollBySlug))

	// Voting
	mux.HandleFunc("POST /voters", middleware.WithLogging(votingHandler.NewVoter))
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("GET /polls/{id}/votes/me", middleware.WithLogging(votingHandler.GetMyVote))

	// Results
	mux.HandleFunc("GET /polls/{id}/tally", middleware.WithLogging(resultsHandler.GetTally))
	mux.HandleFunc("GET /polls/{id}/live", middleware.WithLogging(liveHandler.Live))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-poll API v1"))
	})

	return chimw.RequestID(chimw.Recoverer(middleware.CORS(mux)))
}
