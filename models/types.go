package models

import "time"

// Request types

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatePollRequest struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	IsPublished bool     `json:"isPublished"`
}

// UpdatePollRequest carries a partial update; nil fields are left untouched.
type UpdatePollRequest struct {
	Question    *string `json:"question"`
	IsPublished *bool   `json:"isPublished"`
}

type SubmitVoteRequest struct {
	PollOptionID string `json:"pollOptionId"`
}

// Response types

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type SubmitVoteResponse struct {
	Vote        VoteRecord      `json:"vote"`
	UpdatedPoll PollWithResults `json:"updatedPoll"`
}

// Domain types

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserSummary is the voter identity attached to a vote (no email).
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Poll struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	IsPublished bool      `json:"isPublished"`
	CreatorID   string    `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Option struct {
	ID     string `json:"id"`
	PollID string `json:"pollId"`
	Text   string `json:"text"`
}

type OptionWithCount struct {
	Option
	VoteCount int `json:"voteCount"`
}

// PollWithResults is the tally snapshot for a poll: the poll row plus its
// options annotated with current vote counts. Counts are computed from vote
// rows at read time, never cached.
type PollWithResults struct {
	Poll
	Creator User              `json:"creator"`
	Options []OptionWithCount `json:"options"`
}

type Vote struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PollOptionID string    `json:"pollOptionId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OptionSummary is the chosen option attached to a vote record.
type OptionSummary struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// VoteRecord is a vote joined with its voter and option summaries,
// as returned by POST /api/votes and GET /api/votes/poll/{pollId}.
type VoteRecord struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"createdAt"`
	User       UserSummary   `json:"user"`
	PollOption OptionSummary `json:"pollOption"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
