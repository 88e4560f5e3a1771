// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ident generates identifiers, voter tokens and share slugs.

# Record IDs

Polls, options and votes use time-ordered UUIDv7 keys:

	id, err := ident.NewID()

# Voter Tokens

A voter token is a random UUIDv4. Clients normally generate and keep their
own; the server mints one on request for clients that cannot:

	token, err := ident.GenerateVoterToken()

The token is never verified. It is only the dedup key for one vote per
poll per client.

# Share Slugs

Share slugs create URL-friendly identifiers for polls:

	slug := ident.GenerateShareSlug(pollID, salt)

Slugs are base62 encoded (alphanumeric only) and deterministic from the
poll ID and salt.
*/
package ident
