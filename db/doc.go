// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and driver
error classification.

# Connecting

Open supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections get foreign keys and a busy timeout, and the pool is
limited to one connection.

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: question, share slug
  - option: option text and display position
  - vote: one row per (poll_id, voter_id)

# Relationships

	poll 1──* option
	poll 1──* vote
	option 1──* vote   (vote.(option_id, poll_id) → option.(id, poll_id))

The composite foreign key makes "option belongs to poll" a constraint the
store enforces on insert, so the ledger never reads before it writes.

# Errors

IsUniqueViolation and IsForeignKeyViolation classify constraint errors by
SQLSTATE (PostgreSQL) or extended result code (SQLite).
*/
package db
