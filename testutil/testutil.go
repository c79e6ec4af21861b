// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/julekalender/cliparse"
	"github.com/danielhkuo/julekalender/db"
	"github.com/danielhkuo/julekalender/progress"
)

// TestDBURL is an in-memory SQLite database, private to each connection pool
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: cliparse.DatabaseSQLite,
		Timezone:     "Europe/Oslo",
		LogFormat:    cliparse.LogFormatText,
	}
}

// CreateTestCategory inserts a category and returns its ID
func CreateTestCategory(t *testing.T, db *sql.DB, id, title string) string {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO day_category (id, identifier, title, description)
		VALUES ($1, $2, $3, '')
	`, id, id, title)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return id
}

// CreateTestDay inserts a calendar day with ID "day-<number>" and slug
// "dag-<number>". categoryID may be empty.
func CreateTestDay(t *testing.T, db *sql.DB, number int, categoryID string) string {
	t.Helper()

	id := fmt.Sprintf("day-%d", number)
	var category *string
	if categoryID != "" {
		category = &categoryID
	}

	_, err := db.Exec(`
		INSERT INTO calendar_day (id, day_number, title, description, slug, category_id, is_break, updated_at)
		VALUES ($1, $2, $3, 'A test day', $4, $5, $6, $7)
	`, id, number, fmt.Sprintf("Dag %d", number), fmt.Sprintf("dag-%d", number), category, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test day: %v", err)
	}

	return id
}

// CreateTestCalendar inserts a calendar linking dayIDs in order.
// startDate is YYYY-MM-DD or empty.
func CreateTestCalendar(t *testing.T, db *sql.DB, id, startDate string, dayIDs ...string) string {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO christmas_calendar (id, title, description, start_date, order_rank)
		VALUES ($1, 'Test Calendar', 'A test calendar', $2, $3)
	`, id, startDate, id)
	if err != nil {
		t.Fatalf("Failed to create test calendar: %v", err)
	}

	for i, dayID := range dayIDs {
		_, err := db.Exec(`
			INSERT INTO calendar_day_link (calendar_id, position, day_id)
			VALUES ($1, $2, $3)
		`, id, i, dayID)
		if err != nil {
			t.Fatalf("Failed to link test day: %v", err)
		}
	}

	return id
}

// CreateTestUser inserts a user with the given status list and returns its ID
func CreateTestUser(t *testing.T, db *sql.DB, email string, statuses progress.StatusList) string {
	t.Helper()

	if statuses == nil {
		statuses = progress.StatusList{}
	}
	data, err := json.Marshal(statuses)
	if err != nil {
		t.Fatalf("Failed to encode statuses: %v", err)
	}

	id := "user-" + email
	now := time.Now()
	_, err = db.Exec(`
		INSERT INTO app_user (id, name, email, task_completion_status, created_at, updated_at)
		VALUES ($1, 'Test User', $2, $3, $4, $5)
	`, id, email, string(data), now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// LoadTestStatuses reads a user's stored status list
func LoadTestStatuses(t *testing.T, db *sql.DB, userID string) progress.StatusList {
	t.Helper()

	var data string
	if err := db.QueryRow(`SELECT task_completion_status FROM app_user WHERE id = $1`, userID).Scan(&data); err != nil {
		t.Fatalf("Failed to load statuses: %v", err)
	}

	var list progress.StatusList
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		t.Fatalf("Failed to decode statuses: %v", err)
	}
	return list
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
