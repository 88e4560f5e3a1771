// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"log/slog"
	"strings"

	"github.com/danielhkuo/quickly-poll/humanity"
	"github.com/danielhkuo/quickly-poll/ledger"
	"github.com/danielhkuo/quickly-poll/models"
)

// Recorder is the ledger the gateway depends on. LookupVote is only used
// to settle a write whose result was lost to a store error.
type Recorder interface {
	TryRecordVote(ctx context.Context, pollID, optionID, voterID, sourceAddr string) (ledger.Outcome, models.Vote, error)
	LookupVote(ctx context.Context, pollID, voterID string) (models.Vote, bool, error)
}

// Publisher is told about every accepted vote.
type Publisher interface {
	Publish(pollID string) int
}

// Gateway runs a single vote attempt from receipt to a terminal state.
type Gateway struct {
	verifier  humanity.Verifier
	recorder  Recorder
	publisher Publisher
}

func NewGateway(v humanity.Verifier, r Recorder, p Publisher) *Gateway {
	return &Gateway{verifier: v, recorder: r, publisher: p}
}

// Submit validates the submission, verifies the humanity token once, then
// records the vote. Only the ledger step is retried, and only once, after
// a store error. The humanity token is single-use and is never re-sent.
func (g *Gateway) Submit(ctx context.Context, sub models.Submission) models.SubmissionResult {
	log := slog.With("poll_id", sub.PollID)
	log.Debug("submission state", "state", models.StateReceived)

	log.Debug("submission state", "state", models.StateValidating)
	sub, ok := normalize(sub)
	if !ok {
		return reject(log, models.ReasonInvalidInput)
	}

	log.Debug("submission state", "state", models.StateVerifyingHumanity)
	if !g.verifier.Verify(ctx, sub.HumanityToken, sub.SourceAddr) {
		return reject(log, models.ReasonHumanityCheckFailed)
	}

	log.Debug("submission state", "state", models.StateRecording)
	outcome, vote, err := g.recorder.TryRecordVote(ctx, sub.PollID, sub.OptionID, sub.VoterID, sub.SourceAddr)
	// A failed write may still have committed.
	uncertain := err != nil
	if err != nil && ctx.Err() == nil {
		log.Warn("vote write failed, retrying once", "error", err)
		outcome, vote, err = g.recorder.TryRecordVote(ctx, sub.PollID, sub.OptionID, sub.VoterID, sub.SourceAddr)
	}
	if err != nil {
		log.Error("vote write failed", "error", err)
		// Subscribers only refetch, so a spare notification is harmless.
		g.publish(sub.PollID)
		return reject(log, models.ReasonTransientStoreFailure)
	}

	switch outcome {
	case ledger.Recorded:
	case ledger.Duplicate:
		if !uncertain {
			return reject(log, models.ReasonAlreadyVoted)
		}
		prior, ok := g.settle(ctx, log, sub)
		if !ok {
			return reject(log, models.ReasonAlreadyVoted)
		}
		vote = prior
	case ledger.InvalidReference:
		return reject(log, models.ReasonInvalidInput)
	default:
		log.Error("unexpected ledger outcome", "outcome", outcome)
		return reject(log, models.ReasonTransientStoreFailure)
	}

	g.publish(sub.PollID)

	log.Debug("submission state", "state", models.StateAccepted, "vote_id", vote.ID)
	log.Info("vote accepted", "vote_id", vote.ID, "option_id", vote.OptionID)
	return models.SubmissionResult{State: models.StateAccepted, Vote: vote}
}

// settle decides whether a duplicate seen on the retry is this
// submission's own first write. A stored vote for the same option is
// taken as ours.
func (g *Gateway) settle(ctx context.Context, log *slog.Logger, sub models.Submission) (models.Vote, bool) {
	prior, found, err := g.recorder.LookupVote(ctx, sub.PollID, sub.VoterID)
	if err != nil {
		log.Warn("vote lookup after retry failed", "error", err)
		g.publish(sub.PollID)
		return models.Vote{}, false
	}
	if !found || prior.OptionID != sub.OptionID {
		return models.Vote{}, false
	}
	log.Info("first vote write committed despite error", "vote_id", prior.ID)
	return prior, true
}

func (g *Gateway) publish(pollID string) {
	if g.publisher != nil {
		g.publisher.Publish(pollID)
	}
}

// normalize trims every field and checks the required ones are present.
func normalize(sub models.Submission) (models.Submission, bool) {
	sub.PollID = strings.TrimSpace(sub.PollID)
	sub.OptionID = strings.TrimSpace(sub.OptionID)
	sub.VoterID = strings.TrimSpace(sub.VoterID)
	sub.HumanityToken = strings.TrimSpace(sub.HumanityToken)
	sub.SourceAddr = strings.TrimSpace(sub.SourceAddr)

	if sub.PollID == "" || sub.OptionID == "" || sub.VoterID == "" || sub.HumanityToken == "" {
		return sub, false
	}
	if len(sub.VoterID) > models.MaxVoterIDLength {
		return sub, false
	}
	return sub, true
}

func reject(log *slog.Logger, reason models.Reason) models.SubmissionResult {
	log.Debug("submission state", "state", models.StateRejected, "reason", reason)
	return models.SubmissionResult{State: models.StateRejected, Reason: reason}
}
