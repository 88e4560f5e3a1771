// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-poll/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryRecordVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	l := New(conn)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	pollID, opts := testutil.CreateTestPoll(t, conn, "Tabs or spaces?", "Tabs", "Spaces")
	ctx := context.Background()

	outcome, vote, err := l.TryRecordVote(ctx, pollID, opts[0], "voter-a", "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, Recorded, outcome)
	assert.NotEmpty(t, vote.ID)
	assert.Equal(t, pollID, vote.PollID)
	assert.Equal(t, opts[0], vote.OptionID)
	assert.Equal(t, "voter-a", vote.VoterID)
	assert.Equal(t, fixed, vote.CreatedAt)

	// Same voter, different option: still a duplicate.
	outcome, vote, err = l.TryRecordVote(ctx, pollID, opts[1], "voter-a", "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, Duplicate, outcome)
	assert.Empty(t, vote.ID)

	assert.Equal(t, 1, testutil.CountVotes(t, conn, pollID, ""))

	stored, found, err := l.LookupVote(ctx, pollID, "voter-a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, opts[0], stored.OptionID, "first vote must be preserved")
}

func TestTryRecordVoteInvalidReference(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	l := New(conn)
	ctx := context.Background()

	pollA, optsA := testutil.CreateTestPoll(t, conn, "A?", "a1", "a2")
	_, optsB := testutil.CreateTestPoll(t, conn, "B?", "b1", "b2")

	tests := []struct {
		name     string
		pollID   string
		optionID string
	}{
		{"option from another poll", pollA, optsB[0]},
		{"unknown option", pollA, "no-such-option"},
		{"unknown poll", "no-such-poll", optsA[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, _, err := l.TryRecordVote(ctx, tt.pollID, tt.optionID, "voter-x", "")
			require.NoError(t, err)
			assert.Equal(t, InvalidReference, outcome)
		})
	}

	assert.Equal(t, 0, testutil.CountVotes(t, conn, pollA, ""))

	// Rejected references leave the voter free to vote properly.
	outcome, _, err := l.TryRecordVote(ctx, pollA, optsA[1], "voter-x", "")
	require.NoError(t, err)
	assert.Equal(t, Recorded, outcome)
}

func TestTryRecordVoteConcurrentSameVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	l := New(conn)
	pollID, opts := testutil.CreateTestPoll(t, conn, "Race?", "yes", "no")

	const attempts = 20
	var wg sync.WaitGroup
	outcomes := make(chan Outcome, attempts)
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, _, err := l.TryRecordVote(context.Background(), pollID, opts[i%2], "same-voter", "")
			if err != nil {
				errs <- err
				return
			}
			outcomes <- outcome
		}(i)
	}

	wg.Wait()
	close(outcomes)
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}

	counts := map[Outcome]int{}
	for o := range outcomes {
		counts[o]++
	}
	assert.Equal(t, 1, counts[Recorded])
	assert.Equal(t, attempts-1, counts[Duplicate])
	assert.Equal(t, 1, testutil.CountVotes(t, conn, pollID, "same-voter"))
}

func TestTryRecordVoteDistinctVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	l := New(conn)
	pollID, opts := testutil.CreateTestPoll(t, conn, "Crowd?", "yes", "no")

	const voters = 25
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, _, err := l.TryRecordVote(context.Background(), pollID, opts[i%2], fmt.Sprintf("voter-%d", i), "")
			assert.NoError(t, err)
			assert.Equal(t, Recorded, outcome)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, voters, testutil.CountVotes(t, conn, pollID, ""))
}

func TestLookupVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	l := New(conn)
	ctx := context.Background()
	pollID, opts := testutil.CreateTestPoll(t, conn, "Lookup?", "x", "y")

	_, found, err := l.LookupVote(ctx, pollID, "nobody")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = l.TryRecordVote(ctx, pollID, opts[1], "somebody", "198.51.100.2")
	require.NoError(t, err)

	vote, found, err := l.LookupVote(ctx, pollID, "somebody")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, opts[1], vote.OptionID)
	assert.Equal(t, "198.51.100.2", vote.SourceAddr)

	// Votes are scoped to their poll.
	otherPoll, _ := testutil.CreateTestPoll(t, conn, "Other?", "x", "y")
	_, found, err = l.LookupVote(ctx, otherPoll, "somebody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreUnavailable(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	l := New(conn)
	pollID, opts := testutil.CreateTestPoll(t, conn, "Down?", "x", "y")
	require.NoError(t, conn.Close())

	outcome, _, err := l.TryRecordVote(context.Background(), pollID, opts[0], "voter", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.NotEqual(t, Recorded, outcome)
	assert.NotEqual(t, Duplicate, outcome)

	_, _, err = l.LookupVote(context.Background(), pollID, "voter")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "recorded", Recorded.String())
	assert.Equal(t, "duplicate", Duplicate.String())
	assert.Equal(t, "invalid_reference", InvalidReference.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}
