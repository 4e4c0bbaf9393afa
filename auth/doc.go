// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session tokens, password hashing, and the request
authentication middleware.

# Session Tokens

Tokens are HS256 JWTs carrying the user ID:

	tokens := auth.NewTokenService(cfg.JWTSecret, auth.DefaultTokenTTL)
	signed, err := tokens.IssueToken(user.ID)
	userID, err := tokens.VerifyToken(signed)

VerifyToken rejects non-HMAC signing methods, bad signatures, and expired
tokens, always returning ErrInvalidToken so callers can't leak parser detail.

# HTTP Middleware

RequireAuth guards a handler and resolves the bearer token to a user row:

	mux.HandleFunc("POST /api/votes",
		auth.RequireAuth(tokens, st, voteHandler.SubmitVote))

The identity is available downstream via UserFromContext. The realtime layer
reuses VerifyToken directly for its authenticate event instead of this
middleware, since a websocket authenticates mid-connection rather than
per-request.

# Passwords

Account passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)
*/
package auth
