// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ledger is the append-only vote store. The database enforces one
// vote per voter per poll; callers never check before writing.
package ledger
