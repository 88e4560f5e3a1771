// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreatePollRequest: question, options
  - SubmitVoteRequest: option_id, voter_id, humanity_token

# Response Types

  - CreatePollResponse: poll_id, share_slug, share_url, options
  - NewVoterResponse: voter_id
  - SubmitVoteResponse: vote_id, poll_id, message
  - MyVoteResponse: has_voted, option_id, voted_at
  - ErrorResponse: error, message, reason

# Domain Types

  - Poll: question and share slug, immutable after creation
  - Option: option text and display position
  - Vote: one per (poll, voter)
  - Tally: per-option counts derived from the votes
  - TallyChanged: realtime notification, no payload

# Rejections

Every rejected vote carries a Reason:

	invalid_input            400
	humanity_check_failed    403
	already_voted            409
	not_found                404
	transient_store_failure  503

Only transient_store_failure is retried by the server, and only once.
*/
package models
