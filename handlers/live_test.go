// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/testutil"
)

func liveServer(t *testing.T, env *testEnv) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /polls/{id}/live", env.live.Live)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dialLive(t *testing.T, srv *httptest.Server, pollID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/polls/" + pollID + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial live stream: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.TallyChanged {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev models.TallyChanged
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("Failed to read live event: %v", err)
	}
	return ev
}

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestLiveStream(t *testing.T) {
	env := newTestEnv(t)
	pollID, optionIDs := testutil.CreateTestPoll(t, env.db, "Live?", "a", "b")
	srv := liveServer(t, env)

	conn := dialLive(t, srv, pollID)

	ev := readEvent(t, conn)
	if ev.Type != models.EventSubscribed || ev.PollID != pollID {
		t.Fatalf("Expected subscribed message, got %+v", ev)
	}
	if got := env.hub.SubscriberCount(pollID); got != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", got)
	}

	w := submitVote(env, pollID, models.SubmitVoteRequest{
		OptionID: optionIDs[0], VoterID: "live-voter", HumanityToken: "tok",
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	ev = readEvent(t, conn)
	if ev.Type != models.EventTallyChanged || ev.PollID != pollID || ev.Seq != 1 {
		t.Errorf("Expected tally_changed seq 1, got %+v", ev)
	}

	// A rejected duplicate produces no notification.
	submitVote(env, pollID, models.SubmitVoteRequest{
		OptionID: optionIDs[1], VoterID: "live-voter", HumanityToken: "tok",
	})
	submitVote(env, pollID, models.SubmitVoteRequest{
		OptionID: optionIDs[1], VoterID: "second-voter", HumanityToken: "tok",
	})

	ev = readEvent(t, conn)
	if ev.Seq != 2 {
		t.Errorf("Expected seq 2 after the second accepted vote, got %d", ev.Seq)
	}
}

func TestLiveReleasesSubscriptionOnDisconnect(t *testing.T) {
	env := newTestEnv(t)
	pollID, _ := testutil.CreateTestPoll(t, env.db, "Leave?", "a", "b")
	srv := liveServer(t, env)

	conn := dialLive(t, srv, pollID)
	readEvent(t, conn)

	conn.Close()

	waitFor(t, func() bool { return env.hub.SubscriberCount(pollID) == 0 },
		"Subscription was not released after client disconnect")
	if env.hub.TopicCount() != 0 {
		t.Errorf("Expected no topics, got %d", env.hub.TopicCount())
	}
}

func TestLiveClosesOnShutdown(t *testing.T) {
	env := newTestEnv(t)
	pollID, _ := testutil.CreateTestPoll(t, env.db, "Shutdown?", "a", "b")
	srv := liveServer(t, env)

	conn := dialLive(t, srv, pollID)
	readEvent(t, conn)

	env.hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("Expected going-away close, got %v", err)
	}
}

func TestLiveUnknownPoll(t *testing.T) {
	env := newTestEnv(t)
	srv := liveServer(t, env)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/polls/missing/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Expected dial to fail for unknown poll")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 response, got %v", resp)
	}
	if env.hub.TopicCount() != 0 {
		t.Error("Unknown poll must not create a topic")
	}
}
