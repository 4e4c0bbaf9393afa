// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/realtime"
	"github.com/danielhkuo/livepoll/store"
	"github.com/danielhkuo/livepoll/votes"
)

func NewRouter(st store.Store, cfg cliparse.Config, hub *realtime.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	tokens := auth.NewTokenService(cfg.JWTSecret, auth.DefaultTokenTTL)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(st, tokens)
	pollHandler := handlers.NewPollHandler(st)
	voteHandler := handlers.NewVoteHandler(st, votes.NewService(st, hub))

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(auth.RequireAuth(tokens, st, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Users (public register/login, protected listing)
	mux.HandleFunc("POST /api/users/register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /api/users/login", middleware.WithLogging(userHandler.Login))
	mux.HandleFunc("GET /api/users", protected(userHandler.ListUsers))

	// Polls (public reads, protected writes)
	mux.HandleFunc("GET /api/polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /api/polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /api/polls", protected(pollHandler.CreatePoll))
	mux.HandleFunc("PUT /api/polls/{id}", protected(pollHandler.UpdatePoll))

	// Votes (protected)
	mux.HandleFunc("POST /api/votes", protected(voteHandler.SubmitVote))
	mux.HandleFunc("GET /api/votes/poll/{pollId}", protected(voteHandler.ListVotesByPoll))

	// Live updates
	mux.HandleFunc("GET /ws", realtime.ServeWS(hub, st, tokens))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}
