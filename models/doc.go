// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

All JSON field names are camelCase, matching the websocket payloads so a
poll snapshot serializes identically on both surfaces.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: name, email, password
  - LoginRequest: email, password
  - CreatePollRequest: question, options, isPublished
  - UpdatePollRequest: question, isPublished (both optional)
  - SubmitVoteRequest: pollOptionId

# Response Types

Types for JSON responses:

  - AuthResponse: user, token
  - SubmitVoteResponse: vote, updatedPoll
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: account identity (password hash never serialized)
  - Poll: question, publication state, creator, creation time
  - Option: a votable answer belonging to one poll
  - Vote: one user's single vote on a poll
  - OptionWithCount: Option annotated with its tally
  - PollWithResults: Poll with creator and per-option counts, the
    snapshot shape served over HTTP and broadcast over websockets
  - VoteRecord: a vote with voter and option summaries attached
*/
package models
