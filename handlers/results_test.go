// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/testutil"
)

func getTally(env *testEnv, pollID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/polls/"+pollID+"/tally", nil)
	return serve("GET /polls/{id}/tally", env.results.GetTally, req)
}

func TestGetTally(t *testing.T) {
	env := newTestEnv(t)
	pollID, optionIDs := testutil.CreateTestPoll(t, env.db, "Best season?", "Spring", "Summer", "Autumn", "Winter")

	votes := []int{0, 0, 2, 2, 2, 3}
	for i, opt := range votes {
		testutil.InsertTestVote(t, env.db, pollID, optionIDs[opt], fmt.Sprintf("voter-%d", i))
	}

	w := getTally(env, pollID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.Tally
	testutil.AssertJSON(t, w, &resp)

	if resp.PollID != pollID {
		t.Errorf("Expected poll_id %s, got %s", pollID, resp.PollID)
	}
	if resp.Total != len(votes) {
		t.Errorf("Expected total %d, got %d", len(votes), resp.Total)
	}

	expected := []struct {
		text  string
		count int
		share float64
	}{
		{"Spring", 2, 33.3},
		{"Summer", 0, 0},
		{"Autumn", 3, 50},
		{"Winter", 1, 16.7},
	}
	if len(resp.Options) != len(expected) {
		t.Fatalf("Expected %d options, got %d", len(expected), len(resp.Options))
	}
	for i, want := range expected {
		got := resp.Options[i]
		if got.Text != want.text || got.Count != want.count || got.Share != want.share {
			t.Errorf("Option %d: expected %+v, got %+v", i, want, got)
		}
		if resp.Counts[got.OptionID] != want.count {
			t.Errorf("Counts[%s] = %d, want %d", got.OptionID, resp.Counts[got.OptionID], want.count)
		}
	}
}

func TestGetTallyNoVotes(t *testing.T) {
	env := newTestEnv(t)
	pollID, _ := testutil.CreateTestPoll(t, env.db, "Empty?", "a", "b")

	w := getTally(env, pollID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.Tally
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 0 {
		t.Errorf("Expected total 0, got %d", resp.Total)
	}
	for _, o := range resp.Options {
		if o.Count != 0 || o.Share != 0 {
			t.Errorf("Expected zero count and share, got %+v", o)
		}
	}
}

func TestGetTallyUnknownPoll(t *testing.T) {
	env := newTestEnv(t)

	w := getTally(env, "missing")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
