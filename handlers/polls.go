// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

type PollHandler struct {
	store store.Store
}

func NewPollHandler(st store.Store) *PollHandler {
	return &PollHandler{store: st}
}

// CreatePoll handles POST /api/polls (auth required)
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if strings.TrimSpace(req.Question) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Question and at least 2 options are required")
		return
	}
	if len(req.Options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Question and at least 2 options are required")
		return
	}
	for _, text := range req.Options {
		if strings.TrimSpace(text) == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Option text cannot be empty")
			return
		}
	}

	poll, err := h.store.CreatePoll(r.Context(), req.Question, req.IsPublished, user.ID, req.Options)
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "creator_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// ListPolls handles GET /api/polls
// Published polls only, each option annotated with its vote count, newest first.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.ListPublishedPolls(r.Context())
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch polls")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPoll handles GET /api/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, err := h.store.GetPollWithResults(r.Context(), pollID)
	if errors.Is(err, store.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// UpdatePoll handles PUT /api/polls/{id} (auth required)
// Only the creator may update question or isPublished.
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pollID := r.PathValue("id")

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	existing, err := h.store.GetPollWithResults(r.Context(), pollID)
	if errors.Is(err, store.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to fetch poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
		return
	}

	if existing.CreatorID != user.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not authorized to update this poll")
		return
	}

	if err := h.store.UpdatePoll(r.Context(), pollID, req.Question, req.IsPublished); err != nil {
		slog.Error("failed to update poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
		return
	}

	updated, err := h.store.GetPollWithResults(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to fetch updated poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, updated)
}
