// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Poll API.

# Route Registration

NewRouter builds every handler from the shared dependencies and returns
the complete handler chain:

	handler := router.NewRouter(router.Deps{
		DB:       dbConn,
		Config:   cfg,
		Hub:      liveHub,
		Verifier: verifier,
	})

Requests pass through chi's RequestID and Recoverer, then CORS, then a
Go 1.22 ServeMux.

# Endpoints

	GET  /health               - Liveness
	POST /polls                - Create poll
	GET  /polls/{id}           - Poll and options
	GET  /p/{slug}             - Poll and options by share slug
	POST /voters               - Mint a voter token
	POST /polls/{id}/votes     - Cast a vote
	GET  /polls/{id}/votes/me  - Caller's vote (X-Voter-ID)
	GET  /polls/{id}/tally     - Current tally
	GET  /polls/{id}/live      - Websocket tally-changed stream
*/
package router
