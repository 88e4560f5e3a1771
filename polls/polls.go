// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/ident"
	"github.com/danielhkuo/quickly-poll/models"
)

var (
	ErrNotFound    = errors.New("poll not found")
	ErrInvalidPoll = errors.New("invalid poll")
)

// Store reads and writes polls and their options. Options are fixed at
// creation; there is no edit path.
type Store struct {
	db       *sql.DB
	slugSalt string
}

func NewStore(db *sql.DB, slugSalt string) *Store {
	return &Store{db: db, slugSalt: slugSalt}
}

// Validate trims the question and option texts and checks their limits.
func Validate(question string, optionTexts []string) (string, []string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, fmt.Errorf("%w: question is required", ErrInvalidPoll)
	}
	if utf8.RuneCountInString(question) > models.MaxQuestionLength {
		return "", nil, fmt.Errorf("%w: question exceeds %d characters", ErrInvalidPoll, models.MaxQuestionLength)
	}

	if len(optionTexts) < models.MinOptions || len(optionTexts) > models.MaxOptions {
		return "", nil, fmt.Errorf("%w: a poll needs %d to %d options", ErrInvalidPoll, models.MinOptions, models.MaxOptions)
	}

	texts := make([]string, len(optionTexts))
	for i, text := range optionTexts {
		text = strings.TrimSpace(text)
		if text == "" {
			return "", nil, fmt.Errorf("%w: option %d is empty", ErrInvalidPoll, i+1)
		}
		if utf8.RuneCountInString(text) > models.MaxOptionLength {
			return "", nil, fmt.Errorf("%w: option %d exceeds %d characters", ErrInvalidPoll, i+1, models.MaxOptionLength)
		}
		texts[i] = text
	}

	return question, texts, nil
}

// maxCreateAttempts bounds retries after an id or share slug collision.
const maxCreateAttempts = 3

// CreatePoll inserts a poll and its options in one transaction.
func (s *Store) CreatePoll(ctx context.Context, question string, optionTexts []string) (models.PollWithOptions, error) {
	question, texts, err := Validate(question, optionTexts)
	if err != nil {
		return models.PollWithOptions{}, err
	}

	for attempt := 1; ; attempt++ {
		pwo, err := s.createPoll(ctx, question, texts)
		if err != nil && db.IsUniqueViolation(err) && attempt < maxCreateAttempts {
			slog.Warn("poll id collision, retrying", "attempt", attempt)
			continue
		}
		return pwo, err
	}
}

func (s *Store) createPoll(ctx context.Context, question string, texts []string) (models.PollWithOptions, error) {
	pollID, err := ident.NewID()
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("generate poll id: %w", err)
	}

	poll := models.Poll{
		ID:        pollID,
		Question:  question,
		ShareSlug: ident.GenerateShareSlug(pollID, s.slugSalt),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, share_slug, created_at)
		VALUES ($1, $2, $3, $4)
	`, poll.ID, poll.Question, poll.ShareSlug, poll.CreatedAt)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("insert poll: %w", err)
	}

	options := make([]models.Option, len(texts))
	for i, text := range texts {
		optionID, err := ident.NewID()
		if err != nil {
			return models.PollWithOptions{}, fmt.Errorf("generate option id: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO option (id, poll_id, label, position)
			VALUES ($1, $2, $3, $4)
		`, optionID, poll.ID, text, i)
		if err != nil {
			return models.PollWithOptions{}, fmt.Errorf("insert option: %w", err)
		}

		options[i] = models.Option{ID: optionID, PollID: poll.ID, Text: text, Position: i}
	}

	if err := tx.Commit(); err != nil {
		return models.PollWithOptions{}, fmt.Errorf("commit poll: %w", err)
	}

	return models.PollWithOptions{Poll: poll, Options: options}, nil
}

func (s *Store) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	return s.getPoll(ctx, "id", id)
}

// GetPollBySlug resolves a share link.
func (s *Store) GetPollBySlug(ctx context.Context, slug string) (models.Poll, error) {
	return s.getPoll(ctx, "share_slug", slug)
}

func (s *Store) getPoll(ctx context.Context, column, value string) (models.Poll, error) {
	var poll models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, share_slug, created_at
		FROM poll
		WHERE `+column+` = $1
	`, value).Scan(&poll.ID, &poll.Question, &poll.ShareSlug, &poll.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("query poll: %w", err)
	}
	return poll, nil
}

// GetOptions returns a poll's options in creation order.
func (s *Store) GetOptions(ctx context.Context, pollID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, label, position
		FROM option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Position); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}

	return options, nil
}

// GetPollWithOptions loads a poll and its options.
func (s *Store) GetPollWithOptions(ctx context.Context, id string) (models.PollWithOptions, error) {
	poll, err := s.GetPoll(ctx, id)
	if err != nil {
		return models.PollWithOptions{}, err
	}
	options, err := s.GetOptions(ctx, poll.ID)
	if err != nil {
		return models.PollWithOptions{}, err
	}
	return models.PollWithOptions{Poll: poll, Options: options}, nil
}
