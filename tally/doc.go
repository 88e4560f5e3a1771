// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally derives vote counts per option. Tallies are recomputed
// from the ledger on every call and are never stored.
package tally
