// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on both postgres and sqlite, which is why no engine-specific
column defaults appear: timestamps are written by the application.

# Tables

The schema includes:

  - users: Registered accounts (auth surface)
  - poll: Question, published flag, creator
  - poll_option: Voting options per poll
  - vote: One vote per user per poll, append-only

# Relationships

	users 1──* poll
	poll  1──* poll_option
	poll_option 1──* vote
	users 1──* vote

# The vote uniqueness constraint

vote carries a denormalized poll_id so that "at most one vote per user per
poll" is a plain UNIQUE (user_id, poll_id) evaluated at write time. Two
concurrent submissions for the same pair both reach INSERT, exactly one
commits, and the loser surfaces as a unique-violation error that the store
translates to a duplicate-vote conflict.
*/
package db
