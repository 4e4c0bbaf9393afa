// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package votes implements the vote-integrity pipeline.

SubmitVote validates the option, checks the poll is published, enforces
one vote per user per poll, recomputes the tally from committed rows, and
pushes the snapshot to the injected Broadcaster before returning:

	svc := votes.NewService(st, hub)
	record, snapshot, err := svc.SubmitVote(ctx, user.ID, req.PollOptionID)

The duplicate check is layered: an optimistic read gives a fast, clear
error, and the vote table's UNIQUE (user_id, poll_id) constraint settles
races. Both layers map to store.ErrDuplicateVote so callers observe a single
Conflict outcome.
*/
package votes
