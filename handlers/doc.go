// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the LivePoll API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - UserHandler: registration, login, user listing
  - PollHandler: poll creation, listing, retrieval, creator-only updates
  - VoteHandler: vote submission and per-poll vote listing

	pollHandler := handlers.NewPollHandler(st)
	voteHandler := handlers.NewVoteHandler(st, votes.NewService(st, hub))

# Error Mapping

Handlers are the only layer that turns typed outcomes into HTTP responses:

	store.ErrOptionNotFound  → 404
	votes.ErrPollNotOpen     → 400 "Cannot vote on unpublished poll"
	store.ErrDuplicateVote   → 400 "You have already voted on this poll"
	store.ErrEmailTaken      → 409
	anything else            → 500, logged, generic message

Internal errors never reach the response body.

# Authentication

Protected routes are wrapped with auth.RequireAuth in the router; handlers
read the identity with auth.UserFromContext. The duplicate 401 check inside
each protected handler is a guard for direct (un-routed) use in tests.
*/
package handlers
