// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danielhkuo/livepoll/models"
)

// update is a queued tally broadcast for one poll channel.
type update struct {
	pollID   string
	snapshot models.PollWithResults
}

// Hub owns the live connections and the per-poll channel memberships. Joins,
// leaves, and disconnect purges apply synchronously under the lock, so a
// completed join is visible to the next broadcast. Broadcasts flow through a
// single queue drained by Run, which preserves the production order of
// successive tallies for a poll all the way into each member's send buffer.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	broadcasts chan update
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcasts: make(chan update, 256),
	}
}

// Run drains the broadcast queue until ctx is canceled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case u := <-h.broadcasts:
			h.deliver(u)
		}
	}
}

// Register adds a newly connected client in the anonymous state.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	slog.Info("client connected", "total_clients", total)
}

// Unregister removes the client and purges it from every poll channel it
// joined. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	h.dropLocked(c)
	total := len(h.clients)
	h.mu.Unlock()
	slog.Info("client disconnected", "total_clients", total)
}

// dropLocked removes the client from the hub and all rooms and signals its
// write pump, exactly once. The send channel is never closed here: the read
// pump may be mid-event and about to enqueue, and a send on a closed channel
// would panic. Caller holds h.mu.
func (h *Hub) dropLocked(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	for pollID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, pollID)
		}
	}
	close(c.done)
}

// JoinPoll subscribes the client to a poll's update channel. Idempotent.
func (h *Hub) JoinPoll(c *Client, pollID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	members, ok := h.rooms[pollID]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[pollID] = members
	}
	members[c] = true
}

// LeavePoll removes the client from a poll's update channel. No-op when the
// client is not a member.
func (h *Hub) LeavePoll(c *Client, pollID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[pollID]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, pollID)
	}
}

// MemberCount reports how many connections are subscribed to a poll.
func (h *Hub) MemberCount(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[pollID])
}

// ClientCount reports the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastPollUpdate implements votes.Broadcaster. The snapshot is queued
// and fanned out by Run; the caller's vote is already committed, so delivery
// is best effort and never propagates an error back.
func (h *Hub) BroadcastPollUpdate(pollID string, snapshot models.PollWithResults) {
	select {
	case h.broadcasts <- update{pollID: pollID, snapshot: snapshot}:
	default:
		slog.Warn("broadcast queue full, dropping poll update", "poll_id", pollID)
	}
}

// deliver fans one update out to the poll's current members. A member whose
// send buffer is full is dropped rather than allowed to stall the rest.
func (h *Hub) deliver(u update) {
	ev := pollUpdateEvent(u.snapshot)

	h.mu.Lock()
	defer h.mu.Unlock()

	var stalled []*Client
	for c := range h.rooms[u.pollID] {
		select {
		case c.send <- ev:
		default:
			stalled = append(stalled, c)
		}
	}
	for _, c := range stalled {
		slog.Warn("client send buffer full, dropping connection", "poll_id", u.pollID)
		h.dropLocked(c)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c)
	}
	slog.Info("closed all live connections during shutdown")
}
