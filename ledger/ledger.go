// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/ident"
	"github.com/danielhkuo/quickly-poll/models"
)

// ErrStoreUnavailable wraps every failure that is not a vote outcome:
// the write could not be attempted or did not complete.
var ErrStoreUnavailable = errors.New("vote store unavailable")

// Outcome is the result of one attempt to record a vote.
type Outcome int

const (
	Recorded Outcome = iota + 1
	Duplicate
	InvalidReference
)

func (o Outcome) String() string {
	switch o {
	case Recorded:
		return "recorded"
	case Duplicate:
		return "duplicate"
	case InvalidReference:
		return "invalid_reference"
	}
	return "unknown"
}

// Ledger is the append-only record of votes. It exposes no update or
// delete.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// TryRecordVote inserts a vote in a single statement. The (poll_id,
// voter_id) uniqueness constraint decides Duplicate; the (option_id,
// poll_id) foreign key decides InvalidReference. There is no read before
// the write, so concurrent attempts by the same voter resolve to exactly
// one Recorded.
func (l *Ledger) TryRecordVote(ctx context.Context, pollID, optionID, voterID, sourceAddr string) (Outcome, models.Vote, error) {
	id, err := ident.NewID()
	if err != nil {
		return 0, models.Vote{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	vote := models.Vote{
		ID:         id,
		PollID:     pollID,
		OptionID:   optionID,
		VoterID:    voterID,
		SourceAddr: sourceAddr,
		CreatedAt:  l.now().UTC(),
	}

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO vote (id, poll_id, option_id, voter_id, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (poll_id, voter_id) DO NOTHING
	`, vote.ID, vote.PollID, vote.OptionID, vote.VoterID, nullIfEmpty(vote.SourceAddr), vote.CreatedAt)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return InvalidReference, models.Vote{}, nil
		}
		return 0, models.Vote{}, fmt.Errorf("%w: insert vote: %v", ErrStoreUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, models.Vote{}, fmt.Errorf("%w: rows affected: %v", ErrStoreUnavailable, err)
	}
	if n == 0 {
		return Duplicate, models.Vote{}, nil
	}

	return Recorded, vote, nil
}

// LookupVote returns the vote a voter cast on a poll, if any. It is a
// plain read for clients asking "have I voted"; the write path never
// depends on it.
func (l *Ledger) LookupVote(ctx context.Context, pollID, voterID string) (models.Vote, bool, error) {
	var vote models.Vote
	var sourceAddr sql.NullString
	err := l.db.QueryRowContext(ctx, `
		SELECT id, poll_id, option_id, voter_id, source_addr, created_at
		FROM vote
		WHERE poll_id = $1 AND voter_id = $2
	`, pollID, voterID).Scan(
		&vote.ID, &vote.PollID, &vote.OptionID, &vote.VoterID, &sourceAddr, &vote.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Vote{}, false, nil
	}
	if err != nil {
		return models.Vote{}, false, fmt.Errorf("%w: lookup vote: %v", ErrStoreUnavailable, err)
	}

	vote.SourceAddr = sourceAddr.String
	return vote, true, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
