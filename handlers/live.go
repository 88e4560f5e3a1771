// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-poll/hub"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/polls"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxInboundSize = 512
)

type LiveHandler struct {
	hub      *hub.Hub
	store    *polls.Store
	upgrader websocket.Upgrader
}

func NewLiveHandler(h *hub.Hub, store *polls.Store) *LiveHandler {
	return &LiveHandler{
		hub:   h,
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same open policy as the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Live handles GET /polls/{id}/live
// Streams a tally_changed message for every accepted vote on the poll.
func (h *LiveHandler) Live(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	if _, err := h.store.GetPoll(r.Context(), pollID); err != nil {
		if errors.Is(err, polls.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
			return
		}
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		slog.Warn("websocket upgrade failed", "poll_id", pollID, "error", err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(pollID)
	defer sub.Close()

	log := slog.With("poll_id", pollID, "remote", middleware.GetClientIP(r))
	log.Info("live viewer connected")
	defer log.Info("live viewer disconnected")

	done := make(chan struct{})
	go readPump(conn, done)

	if err := writeJSON(conn, models.TallyChanged{
		Type:   models.EventSubscribed,
		PollID: pollID,
		At:     time.Now().UTC(),
	}); err != nil {
		log.Debug("failed to send subscribed message", "error", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				// Hub closed for shutdown.
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := writeJSON(conn, ev); err != nil {
				log.Debug("live write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("live ping failed", "error", err)
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readPump drains client frames so control messages are processed, and
// closes done when the peer goes away or stops answering pings.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxInboundSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
