// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// TestPassword is the password every test user is created with.
const TestPassword = "password123"

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each test gets its own database; no external server is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A second pool connection would see a different empty in-memory DB.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// SetupTestStore creates a store over a fresh in-memory database.
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	return store.NewSQLStore(SetupTestDB(t))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3000,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		JWTSecret:    "test-jwt-secret",
	}
}

// GetTestTokens returns a token service matching GetTestConfig.
func GetTestTokens() *auth.TokenService {
	return auth.NewTokenService(GetTestConfig().JWTSecret, time.Hour)
}

// CreateTestUser registers a user with TestPassword and returns it.
func CreateTestUser(t *testing.T, st store.Store, name, email string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	user, err := st.CreateUser(context.Background(), name, email, hash)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestPoll creates a poll with options and returns the snapshot.
func CreateTestPoll(t *testing.T, st store.Store, creatorID, question string, published bool, options ...string) models.PollWithResults {
	t.Helper()

	poll, err := st.CreatePoll(context.Background(), question, published, creatorID, options)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// OptionID finds an option by text in a poll snapshot.
func OptionID(t *testing.T, poll models.PollWithResults, text string) string {
	t.Helper()

	for _, opt := range poll.Options {
		if opt.Text == text {
			return opt.ID
		}
	}
	t.Fatalf("Poll %s has no option %q", poll.ID, text)
	return ""
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthHeaders returns the Authorization header map for a user's session.
func AuthHeaders(t *testing.T, tokens *auth.TokenService, userID string) map[string]string {
	t.Helper()

	token, err := tokens.IssueToken(userID)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
