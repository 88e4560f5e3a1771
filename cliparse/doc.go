// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type (sqlite or postgres)
	-base-url          Public base URL for share links
	-verify-url        Turnstile siteverify URL
	-verify-timeout    Timeout for one verification call
	-slug-salt         Poll slug salt
	-turnstile-secret  Turnstile secret key

# Environment Variables

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	PUBLIC_BASE_URL       → -base-url
	TURNSTILE_VERIFY_URL  → -verify-url
	VERIFY_TIMEOUT        → -verify-timeout
	POLL_SLUG_SALT        → -slug-salt
	TURNSTILE_SECRET_KEY  → -turnstile-secret

CLI flags take precedence over environment variables. main loads a .env
file (if present) before parsing, so values there act as environment.

# Validation

ParseFlags returns an error if DATABASE_URL, POLL_SLUG_SALT or
TURNSTILE_SECRET_KEY is missing, or if a value cannot be parsed.
*/
package cliparse
