// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"testing"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/testutil"
)

// newHubClient registers a fresh client with no live connection. Tests drive
// the hub and handlers directly and read outbound events off c.send.
func newHubClient(t *testing.T, h *Hub) *Client {
	t.Helper()
	c := NewClient(h, nil, nil, nil)
	h.Register(c)
	return c
}

func snapshotFor(pollID string) models.PollWithResults {
	var p models.PollWithResults
	p.ID = pollID
	return p
}

func TestHub_JoinPollIdempotent(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)

	h.JoinPoll(c, "poll-1")
	h.JoinPoll(c, "poll-1")

	if got := h.MemberCount("poll-1"); got != 1 {
		t.Errorf("MemberCount = %d, want 1", got)
	}
}

func TestHub_JoinPollUnregisteredClient(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, nil, nil)

	h.JoinPoll(c, "poll-1")

	if got := h.MemberCount("poll-1"); got != 0 {
		t.Errorf("MemberCount = %d, want 0", got)
	}
}

func TestHub_LeavePollWithoutJoin(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)

	// Must not panic or disturb other state.
	h.LeavePoll(c, "poll-1")
	h.LeavePoll(c, "poll-1")

	if got := h.ClientCount(); got != 1 {
		t.Errorf("ClientCount = %d, want 1", got)
	}
}

func TestHub_UnregisterPurgesMemberships(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)

	h.JoinPoll(c, "poll-1")
	h.JoinPoll(c, "poll-2")

	h.Unregister(c)
	h.Unregister(c) // second call is a no-op

	if got := h.ClientCount(); got != 0 {
		t.Errorf("ClientCount = %d, want 0", got)
	}
	if got := h.MemberCount("poll-1"); got != 0 {
		t.Errorf("MemberCount(poll-1) = %d, want 0", got)
	}
	if got := h.MemberCount("poll-2"); got != 0 {
		t.Errorf("MemberCount(poll-2) = %d, want 0", got)
	}
}

func TestHub_DeliverReachesOnlyMembers(t *testing.T) {
	h := NewHub()
	member := newHubClient(t, h)
	bystander := newHubClient(t, h)

	h.JoinPoll(member, "poll-1")

	h.deliver(update{pollID: "poll-1", snapshot: snapshotFor("poll-1")})

	select {
	case ev := <-member.send:
		if ev.Event != EventPollUpdate {
			t.Errorf("event = %q, want %q", ev.Event, EventPollUpdate)
		}
	default:
		t.Fatal("member received no update")
	}

	select {
	case ev := <-bystander.send:
		t.Errorf("bystander received unexpected event %q", ev.Event)
	default:
	}
}

func TestHub_DeliverPreservesOrder(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)
	h.JoinPoll(c, "poll-1")

	first := snapshotFor("poll-1")
	first.Question = "v1"
	second := snapshotFor("poll-1")
	second.Question = "v2"

	h.deliver(update{pollID: "poll-1", snapshot: first})
	h.deliver(update{pollID: "poll-1", snapshot: second})

	got1 := (<-c.send).Data.(models.PollWithResults)
	got2 := (<-c.send).Data.(models.PollWithResults)

	if got1.Question != "v1" || got2.Question != "v2" {
		t.Errorf("updates out of order: %q then %q", got1.Question, got2.Question)
	}
}

func TestHub_DeliverDropsStalledClient(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)
	h.JoinPoll(c, "poll-1")

	// Fill the send buffer so the next delivery cannot be queued.
	for i := 0; i < sendBufferSize; i++ {
		c.send <- errorEvent("filler")
	}

	h.deliver(update{pollID: "poll-1", snapshot: snapshotFor("poll-1")})

	if got := h.ClientCount(); got != 0 {
		t.Errorf("stalled client still registered, ClientCount = %d", got)
	}
	if got := h.MemberCount("poll-1"); got != 0 {
		t.Errorf("stalled client still a member, MemberCount = %d", got)
	}

	select {
	case <-c.done:
	default:
		t.Error("dropped client's write pump was not signaled")
	}
}

// TestHub_DropConcurrentWithInboundEvent covers the window where the hub
// drops a client while its read pump is still handling an inbound event.
// The late enqueue must be swallowed, not panic the process.
func TestHub_DropConcurrentWithInboundEvent(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)
	h.JoinPoll(c, "poll-1")

	for i := 0; i < sendBufferSize; i++ {
		c.send <- errorEvent("filler")
	}

	// Stalled delivery drops the client.
	h.deliver(update{pollID: "poll-1", snapshot: snapshotFor("poll-1")})
	if got := h.ClientCount(); got != 0 {
		t.Fatalf("client still registered, ClientCount = %d", got)
	}

	// The read pump has not observed the drop yet and dispatches one more
	// event, which enqueues a response.
	c.handleEvent(inboundEvent{Event: EventJoinPoll, Data: []byte(`"poll-1"`)})

	// The late join must not resubscribe the dropped client either.
	if got := h.MemberCount("poll-1"); got != 0 {
		t.Errorf("dropped client rejoined, MemberCount = %d", got)
	}
}

func TestHub_UnregisterConcurrentWithInboundEvent(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)
	h.JoinPoll(c, "poll-1")

	h.Unregister(c)

	c.handleEvent(inboundEvent{Event: EventLeavePoll, Data: []byte(`"poll-1"`)})
	c.handleEvent(inboundEvent{Event: "anything"})
}

// mustReceive pops the next queued outbound event or fails the test.
func mustReceive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.send:
		return ev
	default:
		t.Fatal("no event queued")
	}
	return Event{}
}

func TestClient_HandleUnknownEvent(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)

	c.handleEvent(inboundEvent{Event: "selfDestruct"})

	ev := mustReceive(t, c)
	if ev.Event != EventError {
		t.Fatalf("event = %q, want %q", ev.Event, EventError)
	}
	payload := ev.Data.(ErrorPayload)
	if payload.Message != "Unknown event: selfDestruct" {
		t.Errorf("message = %q", payload.Message)
	}
}

func TestClient_JoinAndLeaveEvents(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)

	c.handleEvent(inboundEvent{Event: EventJoinPoll, Data: []byte(`"poll-1"`)})

	ev := mustReceive(t, c)
	if ev.Event != EventJoinedPoll {
		t.Fatalf("event = %q, want %q", ev.Event, EventJoinedPoll)
	}
	room := ev.Data.(RoomPayload)
	if room.PollID != "poll-1" || room.Message != "Joined poll room successfully" {
		t.Errorf("unexpected payload: %+v", room)
	}
	if got := h.MemberCount("poll-1"); got != 1 {
		t.Errorf("MemberCount = %d, want 1", got)
	}

	c.handleEvent(inboundEvent{Event: EventLeavePoll, Data: []byte(`"poll-1"`)})

	ev = mustReceive(t, c)
	if ev.Event != EventLeftPoll {
		t.Fatalf("event = %q, want %q", ev.Event, EventLeftPoll)
	}
	if got := h.MemberCount("poll-1"); got != 0 {
		t.Errorf("MemberCount = %d, want 0", got)
	}
}

func TestClient_JoinPollBadPayload(t *testing.T) {
	h := NewHub()
	c := newHubClient(t, h)

	c.handleEvent(inboundEvent{Event: EventJoinPoll, Data: []byte(`42`)})

	ev := mustReceive(t, c)
	if ev.Event != EventError {
		t.Fatalf("event = %q, want %q", ev.Event, EventError)
	}
}

func TestClient_Authenticate(t *testing.T) {
	st := testutil.SetupTestStore(t)
	tokens := testutil.GetTestTokens()
	user := testutil.CreateTestUser(t, st, "Alice", "alice@example.com")

	token, err := tokens.IssueToken(user.ID)
	if err != nil {
		t.Fatal(err)
	}

	h := NewHub()
	c := NewClient(h, nil, st, tokens)
	h.Register(c)

	c.handleEvent(inboundEvent{Event: EventAuthenticate, Data: []byte(`"` + token + `"`)})

	ev := mustReceive(t, c)
	if ev.Event != EventAuthenticated {
		t.Fatalf("event = %q, want %q", ev.Event, EventAuthenticated)
	}
	payload := ev.Data.(AuthenticatedPayload)
	if payload.User.ID != user.ID || payload.User.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", payload.User)
	}
	if c.user == nil || c.user.ID != user.ID {
		t.Error("identity not attached to connection")
	}
}

func TestClient_AuthenticateBadToken(t *testing.T) {
	st := testutil.SetupTestStore(t)
	tokens := testutil.GetTestTokens()

	h := NewHub()
	c := NewClient(h, nil, st, tokens)
	h.Register(c)

	c.handleEvent(inboundEvent{Event: EventAuthenticate, Data: []byte(`"not-a-token"`)})

	ev := mustReceive(t, c)
	if ev.Event != EventAuthError {
		t.Fatalf("event = %q, want %q", ev.Event, EventAuthError)
	}
	payload := ev.Data.(AuthErrorPayload)
	if payload.Message != "Invalid token" {
		t.Errorf("message = %q", payload.Message)
	}
	if c.user != nil {
		t.Error("identity attached after failed authentication")
	}
}

func TestClient_AuthenticateUnknownUser(t *testing.T) {
	st := testutil.SetupTestStore(t)
	tokens := testutil.GetTestTokens()

	token, err := tokens.IssueToken("ghost-user")
	if err != nil {
		t.Fatal(err)
	}

	h := NewHub()
	c := NewClient(h, nil, st, tokens)
	h.Register(c)

	c.handleEvent(inboundEvent{Event: EventAuthenticate, Data: []byte(`"` + token + `"`)})

	ev := mustReceive(t, c)
	if ev.Event != EventAuthError {
		t.Fatalf("event = %q, want %q", ev.Event, EventAuthError)
	}
}

func TestClient_GetPollData(t *testing.T) {
	st := testutil.SetupTestStore(t)
	creator := testutil.CreateTestUser(t, st, "Creator", "creator@example.com")
	poll := testutil.CreateTestPoll(t, st, creator.ID, "Cats vs Dogs", true, "Cats", "Dogs")

	h := NewHub()
	c := NewClient(h, nil, st, nil)
	h.Register(c)

	c.handleEvent(inboundEvent{Event: EventGetPollData, Data: []byte(`"` + poll.ID + `"`)})

	ev := mustReceive(t, c)
	if ev.Event != EventPollData {
		t.Fatalf("event = %q, want %q", ev.Event, EventPollData)
	}
	snapshot := ev.Data.(models.PollWithResults)
	if snapshot.ID != poll.ID || len(snapshot.Options) != 2 {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
}

func TestClient_GetPollDataNotFound(t *testing.T) {
	st := testutil.SetupTestStore(t)

	h := NewHub()
	c := NewClient(h, nil, st, nil)
	h.Register(c)

	c.handleEvent(inboundEvent{Event: EventGetPollData, Data: []byte(`"missing"`)})

	ev := mustReceive(t, c)
	if ev.Event != EventError {
		t.Fatalf("event = %q, want %q", ev.Event, EventError)
	}
	payload := ev.Data.(ErrorPayload)
	if payload.Message != "Poll not found" {
		t.Errorf("message = %q", payload.Message)
	}
}
