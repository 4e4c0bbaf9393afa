// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/danielhkuo/livepoll/models"
)

// SQLStore implements Store over database/sql. The same queries run on both
// supported engines (postgres via lib/pq, sqlite via modernc), so placeholders
// are $1-style and no engine-specific SQL appears outside error translation.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a unique-constraint rejection from
// either engine. pq exposes a typed error (code 23505); the sqlite driver
// only exposes the message.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Users

func (s *SQLStore) CreateUser(ctx context.Context, name, email, passwordHash string) (models.User, error) {
	user := models.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, name, email, passwordHash, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (models.User, string, error) {
	var user models.User
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &hash)
	if err == sql.ErrNoRows {
		return models.User{}, "", ErrUserNotFound
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("query user by email: %w", err)
	}
	return user, hash, nil
}

func (s *SQLStore) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Name, &user.Email)
	if err == sql.ErrNoRows {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Polls

func (s *SQLStore) CreatePoll(ctx context.Context, question string, isPublished bool, creatorID string, optionTexts []string) (models.PollWithResults, error) {
	creator, err := s.GetUserByID(ctx, creatorID)
	if err != nil {
		return models.PollWithResults{}, err
	}

	poll := models.Poll{
		ID:          uuid.NewString(),
		Question:    question,
		IsPublished: isPublished,
		CreatorID:   creatorID,
		CreatedAt:   time.Now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PollWithResults{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, is_published, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, poll.ID, poll.Question, poll.IsPublished, poll.CreatorID, poll.CreatedAt)
	if err != nil {
		return models.PollWithResults{}, fmt.Errorf("insert poll: %w", err)
	}

	options := make([]models.OptionWithCount, 0, len(optionTexts))
	for i, text := range optionTexts {
		opt := models.Option{
			ID:     uuid.NewString(),
			PollID: poll.ID,
			Text:   text,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (id, poll_id, text, position)
			VALUES ($1, $2, $3, $4)
		`, opt.ID, opt.PollID, opt.Text, i)
		if err != nil {
			return models.PollWithResults{}, fmt.Errorf("insert option: %w", err)
		}
		options = append(options, models.OptionWithCount{Option: opt})
	}

	if err := tx.Commit(); err != nil {
		return models.PollWithResults{}, fmt.Errorf("commit poll: %w", err)
	}

	return models.PollWithResults{Poll: poll, Creator: creator, Options: options}, nil
}

func (s *SQLStore) GetPollWithResults(ctx context.Context, pollID string) (models.PollWithResults, error) {
	var result models.PollWithResults
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.question, p.is_published, p.creator_id, p.created_at,
		       u.id, u.name, u.email
		FROM poll p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = $1
	`, pollID).Scan(
		&result.ID, &result.Question, &result.IsPublished, &result.CreatorID,
		&result.CreatedAt, &result.Creator.ID, &result.Creator.Name, &result.Creator.Email,
	)
	if err == sql.ErrNoRows {
		return models.PollWithResults{}, ErrPollNotFound
	}
	if err != nil {
		return models.PollWithResults{}, fmt.Errorf("query poll: %w", err)
	}

	result.Options, err = s.optionsWithCounts(ctx, pollID)
	if err != nil {
		return models.PollWithResults{}, err
	}
	return result, nil
}

func (s *SQLStore) ListPublishedPolls(ctx context.Context) ([]models.PollWithResults, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.question, p.is_published, p.creator_id, p.created_at,
		       u.id, u.name, u.email
		FROM poll p
		JOIN users u ON u.id = p.creator_id
		WHERE p.is_published
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.PollWithResults{}
	for rows.Next() {
		var p models.PollWithResults
		if err := rows.Scan(
			&p.ID, &p.Question, &p.IsPublished, &p.CreatorID, &p.CreatedAt,
			&p.Creator.ID, &p.Creator.Name, &p.Creator.Email,
		); err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range polls {
		polls[i].Options, err = s.optionsWithCounts(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return polls, nil
}

func (s *SQLStore) UpdatePoll(ctx context.Context, pollID string, question *string, isPublished *bool) error {
	var current models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, is_published FROM poll WHERE id = $1
	`, pollID).Scan(&current.ID, &current.Question, &current.IsPublished)
	if err == sql.ErrNoRows {
		return ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("query poll: %w", err)
	}

	if question != nil {
		current.Question = *question
	}
	if isPublished != nil {
		current.IsPublished = *isPublished
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE poll SET question = $1, is_published = $2 WHERE id = $3
	`, current.Question, current.IsPublished, pollID)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	return nil
}

// optionsWithCounts returns a poll's options in creation order, each
// annotated with the number of vote rows referencing it. Counted at read
// time so the tally always reflects committed votes.
func (s *SQLStore) optionsWithCounts(ctx context.Context, pollID string) ([]models.OptionWithCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.poll_id, o.text,
		       (SELECT COUNT(*) FROM vote v WHERE v.poll_option_id = o.id)
		FROM poll_option o
		WHERE o.poll_id = $1
		ORDER BY o.position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.OptionWithCount{}
	for rows.Next() {
		var o models.OptionWithCount
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.VoteCount); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// Votes

func (s *SQLStore) GetOption(ctx context.Context, optionID string) (models.Option, models.Poll, error) {
	var opt models.Option
	var poll models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.poll_id, o.text,
		       p.id, p.question, p.is_published, p.creator_id, p.created_at
		FROM poll_option o
		JOIN poll p ON p.id = o.poll_id
		WHERE o.id = $1
	`, optionID).Scan(
		&opt.ID, &opt.PollID, &opt.Text,
		&poll.ID, &poll.Question, &poll.IsPublished, &poll.CreatorID, &poll.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Option{}, models.Poll{}, ErrOptionNotFound
	}
	if err != nil {
		return models.Option{}, models.Poll{}, fmt.Errorf("query option: %w", err)
	}
	return opt, poll, nil
}

func (s *SQLStore) UserHasVoted(ctx context.Context, userID, pollID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE user_id = $1 AND poll_id = $2
		)
	`, userID, pollID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query existing vote: %w", err)
	}
	return exists, nil
}

// CreateVote inserts the vote row. The UNIQUE (user_id, poll_id) constraint
// is the authoritative guard: a concurrent duplicate that slipped past the
// pre-check fails here and is translated to ErrDuplicateVote.
func (s *SQLStore) CreateVote(ctx context.Context, userID string, option models.Option) (models.Vote, error) {
	vote := models.Vote{
		ID:           uuid.NewString(),
		UserID:       userID,
		PollOptionID: option.ID,
		CreatedAt:    time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote (id, user_id, poll_option_id, poll_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.UserID, vote.PollOptionID, option.PollID, vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, ErrDuplicateVote
		}
		return models.Vote{}, fmt.Errorf("insert vote: %w", err)
	}

	return vote, nil
}

func (s *SQLStore) ListVotesByPoll(ctx context.Context, pollID string) ([]models.VoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.created_at, u.id, u.name, o.id, o.text
		FROM vote v
		JOIN users u ON u.id = v.user_id
		JOIN poll_option o ON o.id = v.poll_option_id
		WHERE v.poll_id = $1
		ORDER BY v.created_at DESC
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.VoteRecord{}
	for rows.Next() {
		var v models.VoteRecord
		if err := rows.Scan(&v.ID, &v.CreatedAt, &v.User.ID, &v.User.Name, &v.PollOption.ID, &v.PollOption.Text); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
