// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the data-access layer over the relational database.

Store is an interface so the rest of the system never touches *sql.DB
directly; SQLStore is the real implementation and tests get a fresh
in-memory database via testutil:

	st := store.NewSQLStore(dbConn)
	poll, err := st.GetPollWithResults(ctx, pollID)

# Error Translation

Implementations return package sentinels (ErrPollNotFound, ErrDuplicateVote,
ErrEmailTaken, ...) instead of raw driver errors. Unique-constraint
violations are recognized for both supported engines - pq error code 23505
and the sqlite "UNIQUE constraint failed" message - so a vote race loser
always surfaces as ErrDuplicateVote.

# Tallies

Vote counts are computed with COUNT over vote rows at query time. Nothing is
cached or incremented, so a snapshot taken after a commit always sums to the
number of committed vote rows.
*/
package store
