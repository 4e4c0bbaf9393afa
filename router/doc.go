// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ method routing.

# Routes

	GET  /health                      → liveness check
	POST /api/users/register          → Register
	POST /api/users/login             → Login
	GET  /api/users                   → ListUsers (auth)
	GET  /api/polls                   → ListPolls (published only)
	GET  /api/polls/{id}              → GetPoll
	POST /api/polls                   → CreatePoll (auth)
	PUT  /api/polls/{id}              → UpdatePoll (auth, creator only)
	POST /api/votes                   → SubmitVote (auth)
	GET  /api/votes/poll/{pollId}     → ListVotesByPoll (auth)
	GET  /ws                          → websocket upgrade

Protected routes are wrapped with auth.RequireAuth; everything is wrapped
with request logging. The websocket endpoint is public - a live connection
gains identity in-band via its authenticate event.
*/
package router
