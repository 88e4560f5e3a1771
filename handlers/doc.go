// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Poll API.

# Handler Types

Each handler is a struct built from the stores and services it needs:

  - PollHandler: Poll creation and lookup by id or share slug
  - VotingHandler: Voter tokens, vote submission and "have I voted"
  - ResultsHandler: Live tally
  - LiveHandler: Websocket stream of tally-changed notifications

	pollHandler := handlers.NewPollHandler(store, cfg)

# Polls

	POST /polls     → CreatePoll (returns poll_id, share_slug, share_url)
	GET  /polls/{id} → GetPoll
	GET  /p/{slug}   → GetPollBySlug

# Voting Flow

	POST /voters              → NewVoter (optional server-minted voter_id)
	POST /polls/{id}/votes    → SubmitVote
	GET  /polls/{id}/votes/me → GetMyVote (X-Voter-ID header)

SubmitVote hands the request to the voting gateway. Rejections carry a
reason and map to a status:

	invalid_input           400
	humanity_check_failed   403
	not_found               404
	already_voted           409
	transient_store_failure 503

# Results

	GET /polls/{id}/tally → GetTally
	GET /polls/{id}/live  → Live

The live stream sends a "subscribed" message, then one "tally_changed"
message per accepted vote. Messages carry no counts; clients re-read the
tally. The server pings every 30 seconds and drops peers silent for 60.
*/
package handlers
