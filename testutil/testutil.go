// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/humanity"
	"github.com/danielhkuo/quickly-poll/ident"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// The database lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "file:test.db",
		DatabaseType:    db.TypeSQLite,
		PollSlugSalt:    "test-slug-salt",
		TurnstileSecret: "test-turnstile-secret",
		VerifyURL:       cliparse.DefaultVerifyURL,
		VerifyTimeout:   time.Second,
		PublicBaseURL:   "https://poll.test",
	}
}

// CreateTestPoll inserts a poll with the given option texts and returns
// the poll ID and the option IDs in order
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, options ...string) (string, []string) {
	t.Helper()

	pollID, err := ident.NewID()
	if err != nil {
		t.Fatalf("Failed to generate poll ID: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO poll (id, question, share_slug, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, question, ident.GenerateShareSlug(pollID, GetTestConfig().PollSlugSalt), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]string, len(options))
	for i, text := range options {
		optionIDs[i] = AddTestOption(t, conn, pollID, text, i)
	}

	return pollID, optionIDs
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string, position int) string {
	t.Helper()

	optionID, err := ident.NewID()
	if err != nil {
		t.Fatalf("Failed to generate option ID: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO option (id, poll_id, label, position)
		VALUES ($1, $2, $3, $4)
	`, optionID, pollID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// InsertTestVote writes a vote row directly, bypassing the ledger
func InsertTestVote(t *testing.T, conn *sql.DB, pollID, optionID, voterID string) string {
	t.Helper()

	voteID, err := ident.NewID()
	if err != nil {
		t.Fatalf("Failed to generate vote ID: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO vote (id, poll_id, option_id, voter_id, source_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voteID, pollID, optionID, voterID, "127.0.0.1", time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// CountVotes returns the number of vote rows for a poll, optionally
// restricted to one voter
func CountVotes(t *testing.T, conn *sql.DB, pollID, voterID string) int {
	t.Helper()

	var n int
	var err error
	if voterID == "" {
		err = conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1`, pollID).Scan(&n)
	} else {
		err = conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE poll_id = $1 AND voter_id = $2`, pollID, voterID).Scan(&n)
	}
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// StubVerifier answers every verification with a fixed result and counts
// the calls it receives
type StubVerifier struct {
	Accept bool
	calls  atomic.Int32
}

var _ humanity.Verifier = (*StubVerifier)(nil)

func (s *StubVerifier) Verify(ctx context.Context, token, remoteAddr string) bool {
	s.calls.Add(1)
	return s.Accept && token != ""
}

func (s *StubVerifier) Calls() int {
	return int(s.calls.Load())
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
