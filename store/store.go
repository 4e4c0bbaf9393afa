// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/danielhkuo/livepoll/models"
)

// Sentinel errors returned by Store implementations. Callers match with
// errors.Is and map them to transport responses at the boundary.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("poll option not found")
	ErrDuplicateVote  = errors.New("duplicate vote")
	ErrEmailTaken     = errors.New("email already registered")
)

// Store is the data-access interface for the relational store. It is injected
// into services and handlers so tests can substitute a fresh database per
// test instead of sharing a process-wide client.
type Store interface {
	// Users
	CreateUser(ctx context.Context, name, email, passwordHash string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, string, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Polls
	CreatePoll(ctx context.Context, question string, isPublished bool, creatorID string, optionTexts []string) (models.PollWithResults, error)
	GetPollWithResults(ctx context.Context, pollID string) (models.PollWithResults, error)
	ListPublishedPolls(ctx context.Context) ([]models.PollWithResults, error)
	UpdatePoll(ctx context.Context, pollID string, question *string, isPublished *bool) error

	// Votes
	GetOption(ctx context.Context, optionID string) (models.Option, models.Poll, error)
	UserHasVoted(ctx context.Context, userID, pollID string) (bool, error)
	CreateVote(ctx context.Context, userID string, option models.Option) (models.Vote, error)
	ListVotesByPoll(ctx context.Context, pollID string) ([]models.VoteRecord, error)

	Close() error
}
