// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Request Logging

WithLogging logs request start and completion with duration:

	mux.HandleFunc("GET /api/polls", middleware.WithLogging(handler.ListPolls))

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	err := middleware.ParseJSONBody(r, &req)

ErrorResponse wraps the message in models.ErrorResponse so every error body
has the same shape; internal detail stays in the logs, never in the body.

# CORS

CORS wraps the whole mux and answers preflight requests:

	server.Handler = middleware.CORS(mux)

Authentication middleware lives in the auth package, next to the token
service it depends on.
*/
package middleware
