// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// ErrPollNotOpen is returned when the target poll is not published.
var ErrPollNotOpen = errors.New("poll not open for voting")

// Broadcaster receives the fresh tally after a vote commits. The realtime hub
// implements it; tests substitute a recorder.
type Broadcaster interface {
	BroadcastPollUpdate(pollID string, snapshot models.PollWithResults)
}

// Service enforces the one-vote-per-user-per-poll invariant and produces the
// post-vote tally snapshot. The store and broadcaster are injected at
// construction, never pulled from ambient state.
type Service struct {
	store       store.Store
	broadcaster Broadcaster
}

func NewService(st store.Store, b Broadcaster) *Service {
	return &Service{store: st, broadcaster: b}
}

// SubmitVote records one vote for userID on optionID.
//
// Failure modes, in check order: store.ErrOptionNotFound for an unknown
// option, ErrPollNotOpen for an unpublished poll, store.ErrDuplicateVote when
// the user already voted on the poll. The duplicate pre-check gives a clear
// fast error; the vote table's unique constraint is the authority, so a
// concurrent duplicate that passes the pre-check still surfaces as
// store.ErrDuplicateVote from the insert.
//
// On success the tally is recomputed from committed rows and handed to the
// broadcaster before returning. Broadcast fan-out is best effort and cannot
// fail the vote: by then the row is durable.
func (s *Service) SubmitVote(ctx context.Context, userID, optionID string) (models.VoteRecord, models.PollWithResults, error) {
	option, poll, err := s.store.GetOption(ctx, optionID)
	if err != nil {
		return models.VoteRecord{}, models.PollWithResults{}, err
	}

	if !poll.IsPublished {
		return models.VoteRecord{}, models.PollWithResults{}, ErrPollNotOpen
	}

	voted, err := s.store.UserHasVoted(ctx, userID, poll.ID)
	if err != nil {
		return models.VoteRecord{}, models.PollWithResults{}, fmt.Errorf("duplicate pre-check: %w", err)
	}
	if voted {
		return models.VoteRecord{}, models.PollWithResults{}, store.ErrDuplicateVote
	}

	// Load the voter before inserting so a lookup failure cannot leave a
	// committed vote unreported.
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return models.VoteRecord{}, models.PollWithResults{}, fmt.Errorf("load voter: %w", err)
	}

	vote, err := s.store.CreateVote(ctx, userID, option)
	if err != nil {
		return models.VoteRecord{}, models.PollWithResults{}, err
	}

	snapshot, err := s.store.GetPollWithResults(ctx, poll.ID)
	if err != nil {
		return models.VoteRecord{}, models.PollWithResults{}, fmt.Errorf("recompute tally: %w", err)
	}

	s.broadcaster.BroadcastPollUpdate(poll.ID, snapshot)

	slog.Info("vote recorded", "poll_id", poll.ID, "option_id", option.ID)

	record := models.VoteRecord{
		ID:         vote.ID,
		CreatedAt:  vote.CreatedAt,
		User:       models.UserSummary{ID: user.ID, Name: user.Name},
		PollOption: models.OptionSummary{ID: option.ID, Text: option.Text},
	}
	return record, snapshot, nil
}
