// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the LivePoll API server.

LivePoll is a polling service where authenticated users create polls, cast
one vote per poll, and watch tallies update live over a websocket channel.

# Starting the Server

The server reads configuration from environment variables (a .env file is
loaded when present) or CLI flags:

	DATABASE_URL=postgres://... JWT_SECRET=... go run .

Or with flags:

	go run . -p 3000 -d "file:livepoll.db" -t sqlite -jwt-secret dev-secret

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string
  - JWT_SECRET (-jwt-secret): session token signing secret

Optional settings:

  - PORT (-p): server port (default: 3000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, polls, votes)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response and domain types
  - auth: JWT sessions, bcrypt passwords, auth middleware
  - store: data-access interface over postgres/sqlite
  - votes: vote-integrity pipeline (uniqueness + tally + broadcast)
  - realtime: websocket hub, per-poll channels, live tally fan-out
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
