// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/polls"
)

// Aggregator computes tallies from the vote set. Nothing is cached.
type Aggregator struct {
	db *sql.DB
}

func New(db *sql.DB) *Aggregator {
	return &Aggregator{db: db}
}

// ComputeTally counts votes per option for a poll, in option order.
// Every option appears, including those with no votes.
func (a *Aggregator) ComputeTally(ctx context.Context, pollID string) (models.Tally, error) {
	var exists int
	err := a.db.QueryRowContext(ctx, `SELECT 1 FROM poll WHERE id = $1`, pollID).Scan(&exists)
	if err == sql.ErrNoRows {
		return models.Tally{}, polls.ErrNotFound
	}
	if err != nil {
		return models.Tally{}, fmt.Errorf("query poll: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT o.id, o.label, COUNT(v.id)
		FROM option o
		LEFT JOIN vote v ON v.option_id = o.id AND v.poll_id = o.poll_id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.label, o.position
		ORDER BY o.position
	`, pollID)
	if err != nil {
		return models.Tally{}, fmt.Errorf("query tally: %w", err)
	}
	defer rows.Close()

	t := models.Tally{
		PollID:  pollID,
		Counts:  map[string]int{},
		Options: []models.OptionTally{},
	}
	for rows.Next() {
		var ot models.OptionTally
		if err := rows.Scan(&ot.OptionID, &ot.Text, &ot.Count); err != nil {
			return models.Tally{}, fmt.Errorf("scan tally row: %w", err)
		}
		t.Counts[ot.OptionID] = ot.Count
		t.Options = append(t.Options, ot)
		t.Total += ot.Count
	}
	if err := rows.Err(); err != nil {
		return models.Tally{}, fmt.Errorf("iterate tally rows: %w", err)
	}

	for i := range t.Options {
		t.Options[i].Share = Share(t.Options[i].Count, t.Total)
	}

	return t, nil
}

// Share returns count as a percentage of total, rounded to one decimal.
// A zero total gives 0.
func Share(count, total int) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	pct := float64(count) * 100 / float64(total)
	return math.Min(100, math.Round(pct*10)/10)
}
