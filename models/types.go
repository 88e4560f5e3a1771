// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll limits
const (
	MinOptions        = 2
	MaxOptions        = 20
	MaxQuestionLength = 500
	MaxOptionLength   = 200
	MaxVoterIDLength  = 128
)

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// PollID comes from the path; the remaining fields from the body.
type SubmitVoteRequest struct {
	OptionID      string `json:"option_id"`
	VoterID       string `json:"voter_id"`
	HumanityToken string `json:"humanity_token"`
}

// Response types

type CreatePollResponse struct {
	PollID    string   `json:"poll_id"`
	ShareSlug string   `json:"share_slug"`
	ShareURL  string   `json:"share_url"`
	Options   []Option `json:"options"`
}

type NewVoterResponse struct {
	VoterID string `json:"voter_id"`
}

type SubmitVoteResponse struct {
	VoteID  string `json:"vote_id"`
	PollID  string `json:"poll_id"`
	Message string `json:"message"`
}

type MyVoteResponse struct {
	HasVoted bool       `json:"has_voted"`
	OptionID string     `json:"option_id,omitempty"`
	VotedAt  *time.Time `json:"voted_at,omitempty"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	ShareSlug string    `json:"share_slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Option struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type PollWithOptions struct {
	Poll    Poll     `json:"poll"`
	Options []Option `json:"options"`
}

type Vote struct {
	ID         string    `json:"id"`
	PollID     string    `json:"poll_id"`
	OptionID   string    `json:"option_id"`
	VoterID    string    `json:"-"` // Never expose in JSON
	SourceAddr string    `json:"-"` // Never expose in JSON
	CreatedAt  time.Time `json:"created_at"`
}

// Tally types

type OptionTally struct {
	OptionID string  `json:"option_id"`
	Text     string  `json:"text"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"` // percentage, 0-100
}

// Tally is derived from the vote set on every read and is never stored.
type Tally struct {
	PollID  string         `json:"poll_id"`
	Counts  map[string]int `json:"counts"`
	Options []OptionTally  `json:"options"`
	Total   int            `json:"total"`
}

// Realtime types

const (
	EventSubscribed   = "subscribed"
	EventTallyChanged = "tally_changed"
)

// TallyChanged tells a subscriber that the tally for a poll moved.
// It carries no counts; subscribers re-read the tally.
type TallyChanged struct {
	Type   string    `json:"type"`
	PollID string    `json:"poll_id"`
	Seq    uint64    `json:"seq"`
	At     time.Time `json:"at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  Reason `json:"reason,omitempty"`
}
