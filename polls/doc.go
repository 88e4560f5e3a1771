// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package polls stores polls and their fixed option lists.
//
// A poll is created once with its options and never edited:
//
//	store := polls.NewStore(db, cfg.PollSlugSalt)
//	pwo, err := store.CreatePoll(ctx, "Lunch?", []string{"Tacos", "Ramen"})
//
// Lookups return ErrNotFound for unknown ids and slugs; creation returns
// an error wrapping ErrInvalidPoll when the question or options are out
// of bounds.
package polls
