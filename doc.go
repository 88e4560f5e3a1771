// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Poll API server.

Quickly Poll runs single-choice polls: anyone with the link can vote once,
after passing a Cloudflare Turnstile check, and watch the tally update live.

# Starting the Server

The server reads environment variables (optionally from .env) or CLI flags:

	DATABASE_URL=file:polls.db POLL_SLUG_SALT=... TURNSTILE_SECRET_KEY=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - POLL_SLUG_SALT (-slug-salt): Secret for share slug generation
  - TURNSTILE_SECRET_KEY (-turnstile-secret): Turnstile server secret

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PUBLIC_BASE_URL (-base-url): Prefix for share links
  - TURNSTILE_VERIFY_URL (-verify-url): siteverify endpoint
  - VERIFY_TIMEOUT (-verify-timeout): Per-call verification timeout

# Architecture

  - handlers: HTTP request handlers (polls, voting, results, live)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - voting: Vote submission gateway
  - ledger: Append-only vote store, one vote per voter per poll
  - tally: Per-option counts computed from the ledger
  - hub: Realtime "tally changed" broadcast
  - humanity: Turnstile verification
  - polls: Poll and option storage
  - models: Request/response and domain types
  - ident: IDs, voter tokens and share slugs
  - db: Connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
