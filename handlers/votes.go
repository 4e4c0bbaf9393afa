// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
	"github.com/danielhkuo/livepoll/votes"
)

type VoteHandler struct {
	store store.Store
	votes *votes.Service
}

func NewVoteHandler(st store.Store, svc *votes.Service) *VoteHandler {
	return &VoteHandler{store: st, votes: svc}
}

// SubmitVote handles POST /api/votes (auth required)
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PollOptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll option ID is required")
		return
	}

	record, snapshot, err := h.votes.SubmitVote(r.Context(), user.ID, req.PollOptionID)
	switch {
	case errors.Is(err, store.ErrOptionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll option not found")
		return
	case errors.Is(err, votes.ErrPollNotOpen):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot vote on unpublished poll")
		return
	case errors.Is(err, store.ErrDuplicateVote):
		// Same outcome whether caught by the pre-check or by the store
		// constraint under a race.
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have already voted on this poll")
		return
	case err != nil:
		slog.Error("failed to submit vote", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Vote:        record,
		UpdatedPoll: snapshot,
	})
}

// ListVotesByPoll handles GET /api/votes/poll/{pollId} (auth required)
// All votes for a poll with voter and option summaries, newest first.
func (h *VoteHandler) ListVotesByPoll(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pollID := r.PathValue("pollId")

	records, err := h.store.ListVotesByPoll(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to list votes", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}
