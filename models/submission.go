// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "net/http"

// Reason explains why a submission was rejected.
type Reason string

const (
	ReasonInvalidInput          Reason = "invalid_input"
	ReasonHumanityCheckFailed   Reason = "humanity_check_failed"
	ReasonAlreadyVoted          Reason = "already_voted"
	ReasonNotFound              Reason = "not_found"
	ReasonTransientStoreFailure Reason = "transient_store_failure"
)

// Retryable reports whether the system itself may retry. Only store
// failures qualify; every other reason needs fresh input from the voter.
func (r Reason) Retryable() bool {
	return r == ReasonTransientStoreFailure
}

// HTTPStatus maps a rejection reason to a response status.
func (r Reason) HTTPStatus() int {
	switch r {
	case ReasonInvalidInput:
		return http.StatusBadRequest
	case ReasonHumanityCheckFailed:
		return http.StatusForbidden
	case ReasonAlreadyVoted:
		return http.StatusConflict
	case ReasonNotFound:
		return http.StatusNotFound
	case ReasonTransientStoreFailure:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Message is the user-facing text for a reason.
func (r Reason) Message() string {
	switch r {
	case ReasonInvalidInput:
		return "The vote request is missing fields or references an unknown option"
	case ReasonHumanityCheckFailed:
		return "Verification failed, please complete the challenge again"
	case ReasonAlreadyVoted:
		return "You have already voted on this poll"
	case ReasonNotFound:
		return "Poll not found"
	case ReasonTransientStoreFailure:
		return "Could not record your vote right now, try again"
	}
	return "Unknown error"
}

// Submission is one vote attempt as received by the gateway.
type Submission struct {
	PollID        string
	OptionID      string
	VoterID       string
	HumanityToken string
	SourceAddr    string
}

// SubmissionState names a step of a single vote attempt.
type SubmissionState string

const (
	StateReceived          SubmissionState = "received"
	StateValidating        SubmissionState = "validating"
	StateVerifyingHumanity SubmissionState = "verifying_humanity"
	StateRecording         SubmissionState = "recording"
	StateAccepted          SubmissionState = "accepted"
	StateRejected          SubmissionState = "rejected"
)

// SubmissionResult is the terminal state of a vote attempt.
type SubmissionResult struct {
	State  SubmissionState
	Reason Reason // set when State is StateRejected
	Vote   Vote   // set when State is StateAccepted
}

func (r SubmissionResult) Accepted() bool {
	return r.State == StateAccepted
}
