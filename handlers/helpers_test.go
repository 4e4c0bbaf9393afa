// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

// nopBroadcaster satisfies votes.Broadcaster for tests that do not care
// about fan-out; recordingBroadcaster counts what would have gone out.
type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastPollUpdate(string, models.PollWithResults) {}

type recordingBroadcaster struct {
	mu      sync.Mutex
	updates []models.PollWithResults
}

func (b *recordingBroadcaster) BroadcastPollUpdate(pollID string, snapshot models.PollWithResults) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, snapshot)
}

func (b *recordingBroadcaster) snapshots() []models.PollWithResults {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.PollWithResults(nil), b.updates...)
}

// asUser attaches an authenticated identity the way the middleware would.
func asUser(req *http.Request, user models.User) *http.Request {
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}
