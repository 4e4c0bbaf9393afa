// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBufferSize = 64
)

// Client owns one live connection. It starts anonymous; a successful
// authenticate event attaches a user identity. Channel memberships are
// tracked by the hub and purged when the connection ends.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	store  store.Store
	tokens *auth.TokenService

	send chan Event

	// done is closed by the hub when it drops the client. The read pump may
	// still be handling an inbound event at that point, so send stays open
	// and the write pump exits on done instead.
	done chan struct{}

	// user is set by the authenticate handler and only touched from the
	// read pump goroutine.
	user *models.User
}

func NewClient(hub *Hub, conn *websocket.Conn, st store.Store, tokens *auth.TokenService) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		store:  st,
		tokens: tokens,
		send:   make(chan Event, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// Start begins the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// enqueue hands an event to the write pump without blocking the read path.
func (c *Client) enqueue(ev Event) {
	select {
	case c.send <- ev:
	default:
		slog.Warn("send buffer full, dropping event", "event", ev.Event)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		slog.Error("failed to set read deadline", "error", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev inboundEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected websocket close", "error", err)
			}
			break
		}
		c.handleEvent(ev)
	}
}

// handleEvent dispatches one inbound event. Join and leave are deliberately
// not gated on authentication: anonymous connections may watch a poll's
// tallies, matching the public read surface of the HTTP API.
func (c *Client) handleEvent(ev inboundEvent) {
	switch ev.Event {
	case EventAuthenticate:
		c.handleAuthenticate(ev.Data)
	case EventJoinPoll:
		pollID, ok := decodeString(ev.Data)
		if !ok {
			c.enqueue(errorEvent("pollId must be a string"))
			return
		}
		c.hub.JoinPoll(c, pollID)
		c.enqueue(joinedPollEvent(pollID))
	case EventLeavePoll:
		pollID, ok := decodeString(ev.Data)
		if !ok {
			c.enqueue(errorEvent("pollId must be a string"))
			return
		}
		c.hub.LeavePoll(c, pollID)
		c.enqueue(leftPollEvent(pollID))
	case EventGetPollData:
		pollID, ok := decodeString(ev.Data)
		if !ok {
			c.enqueue(errorEvent("pollId must be a string"))
			return
		}
		c.handleGetPollData(pollID)
	default:
		c.enqueue(errorEvent("Unknown event: " + ev.Event))
	}
}

// handleAuthenticate verifies the supplied token and attaches the identity.
// Failure emits authError and leaves the connection open and anonymous.
func (c *Client) handleAuthenticate(data json.RawMessage) {
	token, ok := decodeString(data)
	if !ok || token == "" {
		c.enqueue(authErrorEvent("Authentication failed"))
		return
	}

	userID, err := c.tokens.VerifyToken(token)
	if err != nil {
		c.enqueue(authErrorEvent("Invalid token"))
		return
	}

	user, err := c.store.GetUserByID(context.Background(), userID)
	if err != nil {
		c.enqueue(authErrorEvent("Invalid token"))
		return
	}

	c.user = &user
	c.enqueue(authenticatedEvent(user))
	slog.Info("connection authenticated", "user_id", user.ID)
}

// handleGetPollData serves an on-demand snapshot, independent of channel
// membership or authentication.
func (c *Client) handleGetPollData(pollID string) {
	snapshot, err := c.store.GetPollWithResults(context.Background(), pollID)
	if errors.Is(err, store.ErrPollNotFound) {
		c.enqueue(errorEvent("Poll not found"))
		return
	}
	if err != nil {
		slog.Error("failed to load poll data", "error", err, "poll_id", pollID)
		c.enqueue(errorEvent("Failed to fetch poll data"))
		return
	}
	c.enqueue(pollDataEvent(snapshot))
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				slog.Error("failed to set write deadline", "error", err)
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				slog.Error("failed to write event", "error", err)
				return
			}

		case <-c.done:
			// The hub dropped this client
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// decodeString accepts the event payload as a bare JSON string.
func decodeString(data json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}
