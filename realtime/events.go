// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"encoding/json"

	"github.com/danielhkuo/livepoll/models"
)

// Event names form a closed set; anything else on the wire is answered with
// an error event rather than dispatched.
const (
	// Inbound (client -> server)
	EventAuthenticate = "authenticate"
	EventJoinPoll     = "joinPoll"
	EventLeavePoll    = "leavePoll"
	EventGetPollData  = "getPollData"

	// Outbound (server -> client)
	EventAuthenticated = "authenticated"
	EventAuthError     = "authError"
	EventJoinedPoll    = "joinedPoll"
	EventLeftPoll      = "leftPoll"
	EventPollData      = "pollData"
	EventPollUpdate    = "pollUpdate"
	EventError         = "error"
)

// Event is an outbound message.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// inboundEvent defers payload decoding until the event name is known.
// authenticate carries a token string, the poll events carry a poll ID string.
type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Outbound payload shapes, one per event.

type AuthenticatedPayload struct {
	User models.User `json:"user"`
}

type AuthErrorPayload struct {
	Message string `json:"message"`
}

type RoomPayload struct {
	PollID  string `json:"pollId"`
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func authenticatedEvent(user models.User) Event {
	return Event{Event: EventAuthenticated, Data: AuthenticatedPayload{User: user}}
}

func authErrorEvent(message string) Event {
	return Event{Event: EventAuthError, Data: AuthErrorPayload{Message: message}}
}

func joinedPollEvent(pollID string) Event {
	return Event{Event: EventJoinedPoll, Data: RoomPayload{PollID: pollID, Message: "Joined poll room successfully"}}
}

func leftPollEvent(pollID string) Event {
	return Event{Event: EventLeftPoll, Data: RoomPayload{PollID: pollID, Message: "Left poll room successfully"}}
}

func pollDataEvent(snapshot models.PollWithResults) Event {
	return Event{Event: EventPollData, Data: snapshot}
}

func pollUpdateEvent(snapshot models.PollWithResults) Event {
	return Event{Event: EventPollUpdate, Data: snapshot}
}

func errorEvent(message string) Event {
	return Event{Event: EventError, Data: ErrorPayload{Message: message}}
}
