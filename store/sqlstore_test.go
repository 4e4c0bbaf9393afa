// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/livepoll/store"
	"github.com/danielhkuo/livepoll/testutil"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	_, err := st.CreateUser(ctx, "Alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	_, err = st.CreateUser(ctx, "Alice Again", "alice@example.com", "hash")
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	created := testutil.CreateTestUser(t, st, "Bob", "bob@example.com")

	user, hash, err := st.GetUserByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if user.ID != created.ID || user.Name != "Bob" {
		t.Errorf("unexpected user: %+v", user)
	}
	if hash == "" {
		t.Error("expected a stored password hash")
	}

	_, _, err = st.GetUserByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreatePoll_Snapshot(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, st, "Carol", "carol@example.com")
	created := testutil.CreateTestPoll(t, st, creator.ID, "Cats vs Dogs", true, "Cats", "Dogs")

	snapshot, err := st.GetPollWithResults(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPollWithResults() error = %v", err)
	}

	if snapshot.Question != "Cats vs Dogs" || !snapshot.IsPublished {
		t.Errorf("unexpected poll: %+v", snapshot.Poll)
	}
	if snapshot.Creator.ID != creator.ID {
		t.Errorf("creator = %q, want %q", snapshot.Creator.ID, creator.ID)
	}
	if len(snapshot.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(snapshot.Options))
	}
	for _, opt := range snapshot.Options {
		if opt.VoteCount != 0 {
			t.Errorf("fresh option %q has voteCount %d", opt.Text, opt.VoteCount)
		}
	}
}

func TestGetPollWithResults_OptionsInCreationOrder(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, st, "Carol", "carol@example.com")
	// Deliberately not alphabetical and not in UUID order.
	texts := []string{"Zebra", "Apple", "Mango", "Banana"}
	created := testutil.CreateTestPoll(t, st, creator.ID, "Favorite?", true, texts...)

	for i, opt := range created.Options {
		if opt.Text != texts[i] {
			t.Fatalf("creation response option %d = %q, want %q", i, opt.Text, texts[i])
		}
	}

	snapshot, err := st.GetPollWithResults(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPollWithResults() error = %v", err)
	}
	for i, opt := range snapshot.Options {
		if opt.Text != texts[i] {
			t.Errorf("snapshot option %d = %q, want %q", i, opt.Text, texts[i])
		}
	}

	polls, err := st.ListPublishedPolls(ctx)
	if err != nil {
		t.Fatalf("ListPublishedPolls() error = %v", err)
	}
	if len(polls) != 1 {
		t.Fatalf("expected 1 poll, got %d", len(polls))
	}
	for i, opt := range polls[0].Options {
		if opt.Text != texts[i] {
			t.Errorf("listed option %d = %q, want %q", i, opt.Text, texts[i])
		}
	}
}

func TestGetPollWithResults_NotFound(t *testing.T) {
	st := testutil.SetupTestStore(t)

	_, err := st.GetPollWithResults(context.Background(), "no-such-poll")
	if !errors.Is(err, store.ErrPollNotFound) {
		t.Errorf("expected ErrPollNotFound, got %v", err)
	}
}

func TestListPublishedPolls_FiltersAndOrders(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, st, "Dan", "dan@example.com")
	testutil.CreateTestPoll(t, st, creator.ID, "Draft poll", false, "A", "B")
	first := testutil.CreateTestPoll(t, st, creator.ID, "First", true, "A", "B")
	second := testutil.CreateTestPoll(t, st, creator.ID, "Second", true, "A", "B")

	polls, err := st.ListPublishedPolls(ctx)
	if err != nil {
		t.Fatalf("ListPublishedPolls() error = %v", err)
	}
	if len(polls) != 2 {
		t.Fatalf("expected 2 published polls, got %d", len(polls))
	}
	// Newest first
	if polls[0].ID != second.ID || polls[1].ID != first.ID {
		t.Errorf("polls not ordered newest first: %q then %q", polls[0].Question, polls[1].Question)
	}
}

func TestCreateVote_DuplicateTranslation(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, st, "Eve", "eve@example.com")
	voter := testutil.CreateTestUser(t, st, "Frank", "frank@example.com")
	poll := testutil.CreateTestPoll(t, st, creator.ID, "Best side?", true, "Left", "Right")

	left, _, err := st.GetOption(ctx, testutil.OptionID(t, poll, "Left"))
	if err != nil {
		t.Fatalf("GetOption() error = %v", err)
	}
	right, _, err := st.GetOption(ctx, testutil.OptionID(t, poll, "Right"))
	if err != nil {
		t.Fatalf("GetOption() error = %v", err)
	}

	if _, err := st.CreateVote(ctx, voter.ID, left); err != nil {
		t.Fatalf("first CreateVote() error = %v", err)
	}

	// Same user, same poll, different option: the constraint must reject it.
	_, err = st.CreateVote(ctx, voter.ID, right)
	if !errors.Is(err, store.ErrDuplicateVote) {
		t.Errorf("expected ErrDuplicateVote, got %v", err)
	}

	voted, err := st.UserHasVoted(ctx, voter.ID, poll.ID)
	if err != nil {
		t.Fatalf("UserHasVoted() error = %v", err)
	}
	if !voted {
		t.Error("UserHasVoted() = false after a committed vote")
	}
}

func TestTallyCountsMatchVoteRows(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, st, "Grace", "grace@example.com")
	poll := testutil.CreateTestPoll(t, st, creator.ID, "Lunch?", true, "Pizza", "Sushi", "Tacos")

	choices := []string{"Pizza", "Pizza", "Sushi"}
	for i, text := range choices {
		voter := testutil.CreateTestUser(t, st, "Voter", string(rune('a'+i))+"@example.com")
		opt, _, err := st.GetOption(ctx, testutil.OptionID(t, poll, text))
		if err != nil {
			t.Fatalf("GetOption() error = %v", err)
		}
		if _, err := st.CreateVote(ctx, voter.ID, opt); err != nil {
			t.Fatalf("CreateVote() error = %v", err)
		}
	}

	snapshot, err := st.GetPollWithResults(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPollWithResults() error = %v", err)
	}

	counts := map[string]int{}
	total := 0
	for _, opt := range snapshot.Options {
		counts[opt.Text] = opt.VoteCount
		total += opt.VoteCount
	}
	if counts["Pizza"] != 2 || counts["Sushi"] != 1 || counts["Tacos"] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if total != len(choices) {
		t.Errorf("sum of option counts = %d, want %d", total, len(choices))
	}
}

func TestUpdatePoll_Partial(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, st, "Heidi", "heidi@example.com")
	poll := testutil.CreateTestPoll(t, st, creator.ID, "Old question", false, "A", "B")

	published := true
	if err := st.UpdatePoll(ctx, poll.ID, nil, &published); err != nil {
		t.Fatalf("UpdatePoll() error = %v", err)
	}

	updated, err := st.GetPollWithResults(ctx, poll.ID)
	if err != nil {
		t.Fatalf("GetPollWithResults() error = %v", err)
	}
	if updated.Question != "Old question" {
		t.Errorf("question changed unexpectedly: %q", updated.Question)
	}
	if !updated.IsPublished {
		t.Error("isPublished not updated")
	}

	if err := st.UpdatePoll(ctx, "missing", nil, &published); !errors.Is(err, store.ErrPollNotFound) {
		t.Errorf("expected ErrPollNotFound, got %v", err)
	}
}

func TestListVotesByPoll_NewestFirst(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, st, "Ivan", "ivan@example.com")
	poll := testutil.CreateTestPoll(t, st, creator.ID, "Q", true, "A", "B")
	opt, _, err := st.GetOption(ctx, testutil.OptionID(t, poll, "A"))
	if err != nil {
		t.Fatalf("GetOption() error = %v", err)
	}

	u1 := testutil.CreateTestUser(t, st, "First Voter", "v1@example.com")
	u2 := testutil.CreateTestUser(t, st, "Second Voter", "v2@example.com")
	if _, err := st.CreateVote(ctx, u1.ID, opt); err != nil {
		t.Fatal(err)
	}
	if _, err := st.CreateVote(ctx, u2.ID, opt); err != nil {
		t.Fatal(err)
	}

	records, err := st.ListVotesByPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("ListVotesByPoll() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(records))
	}
	for _, rec := range records {
		if rec.User.Name == "" || rec.PollOption.Text == "" {
			t.Errorf("record missing summaries: %+v", rec)
		}
	}
}
