// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema is portable across postgres and sqlite: no engine-specific defaults,
// timestamps are written by the application.
const Schema = `
-- Users (created by the auth surface, referenced by polls and votes)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    is_published BOOLEAN NOT NULL,
    creator_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_is_published ON poll(is_published);
CREATE INDEX IF NOT EXISTS idx_poll_created_at ON poll(created_at);

-- Options. position preserves the creation order of a poll's options so
-- every snapshot lists them the way the creator submitted them.
CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON poll_option(poll_id);

-- Votes. poll_id is denormalized from the chosen option so the
-- one-vote-per-user-per-poll invariant is a plain two-column constraint
-- enforced at write time. The store fills it from the option row, never
-- from client input.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    poll_option_id TEXT NOT NULL REFERENCES poll_option(id),
    poll_id TEXT NOT NULL REFERENCES poll(id),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, poll_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_option_id ON vote(poll_option_id);
CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id);
`
