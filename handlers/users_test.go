// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/julekalender/content"
	"github.com/danielhkuo/julekalender/live"
	"github.com/danielhkuo/julekalender/models"
	"github.com/danielhkuo/julekalender/progress"
	"github.com/danielhkuo/julekalender/testutil"
)

type failingSource struct{ err error }

func (f failingSource) CanonicalItems(ctx context.Context) ([]progress.Item, error) {
	return nil, f.err
}

type userFixture struct {
	db      *sql.DB
	repo    *content.Repo
	handler *UserHandler
	mux     *http.ServeMux
}

func newUserFixture(t *testing.T, source progress.Source, opts progress.Options) *userFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := content.NewRepo(db)
	if source == nil {
		source = repo
	}

	hub := live.NewHub()
	t.Cleanup(hub.Close)
	if opts.OnReplace == nil {
		opts.OnReplace = hub.Publish
	}

	h := NewUserHandler(repo, progress.NewSyncer(source, repo, opts), hub)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", h.CreateUser)
	mux.HandleFunc("GET /users/{email}", h.GetUser)
	mux.HandleFunc("GET /users/{email}/progress", h.GetProgress)
	mux.HandleFunc("POST /users/{email}/tasks/{dayID}/toggle", h.ToggleTask)

	return &userFixture{db: db, repo: repo, handler: h, mux: mux}
}

func (f *userFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, nil))
	return w
}

func TestCreateUser(t *testing.T) {
	f := newUserFixture(t, nil, progress.Options{})
	testutil.CreateTestDay(t, f.db, 2, "")
	testutil.CreateTestDay(t, f.db, 1, "")

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"valid", models.CreateUserRequest{Name: "Kari", Email: "kari@example.no"}, http.StatusCreated},
		{"duplicate email", models.CreateUserRequest{Name: "Kari", Email: "KARI@example.no"}, http.StatusConflict},
		{"missing name", models.CreateUserRequest{Email: "ola@example.no"}, http.StatusBadRequest},
		{"invalid email", models.CreateUserRequest{Name: "Ola", Email: "not-an-email"}, http.StatusBadRequest},
		{"display name email", models.CreateUserRequest{Name: "Ola", Email: "Ola <ola@example.no>"}, http.StatusBadRequest},
		{"invalid JSON", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do("POST", "/users", tt.body)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}

	user, err := f.repo.UserByEmail(context.Background(), "kari@example.no")
	if err != nil {
		t.Fatalf("Expected user to exist: %v", err)
	}

	// seeded from every day ordered by day number
	list := testutil.LoadTestStatuses(t, f.db, user.ID)
	if len(list) != 2 || list[0].RefID() != "day-1" || list[1].RefID() != "day-2" {
		t.Errorf("Unexpected seeded list: %+v", list)
	}
	if list.CompletedCount() != 0 {
		t.Error("Expected every seeded entry to be incomplete")
	}
}

func TestGetUser(t *testing.T) {
	f := newUserFixture(t, nil, progress.Options{})
	testutil.CreateTestUser(t, f.db, "kari@example.no", nil)

	w := f.do("GET", "/users/kari@example.no", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var user models.User
	testutil.AssertJSON(t, w, &user)
	if user.Email != "kari@example.no" {
		t.Errorf("Expected kari@example.no, got %s", user.Email)
	}

	w = f.do("GET", "/users/nobody@example.no", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetProgressReconciles(t *testing.T) {
	f := newUserFixture(t, nil, progress.Options{})
	d1 := testutil.CreateTestDay(t, f.db, 1, "")
	d2 := testutil.CreateTestDay(t, f.db, 2, "")
	d3 := testutil.CreateTestDay(t, f.db, 3, "")
	testutil.CreateTestCalendar(t, f.db, "cal", "", d1, d2, d3)

	// stored list is missing day 1 and 3 and has a removed day
	userID := testutil.CreateTestUser(t, f.db, "kari@example.no", progress.StatusList{
		{ItemRef: &progress.Reference{Type: progress.TypeReference, Ref: d2}, Completed: true},
		{ItemRef: &progress.Reference{Type: progress.TypeReference, Ref: "day-99"}, Completed: true},
	})

	w := f.do("GET", "/users/kari@example.no/progress", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProgressResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 3 || resp.Completed != 1 || resp.NextStep != "Dag 1" {
		t.Errorf("Unexpected progress: %+v", resp)
	}
	if resp.Tasks[1].DayID != d2 || !resp.Tasks[1].Completed {
		t.Errorf("Expected day 2 to stay completed, got %+v", resp.Tasks[1])
	}

	stored := testutil.LoadTestStatuses(t, f.db, userID)
	if len(stored) != 3 || stored[0].RefID() != d1 || stored[2].RefID() != d3 {
		t.Errorf("Expected reconciled list to be persisted, got %+v", stored)
	}
	if stored[1].Key != d2 {
		t.Errorf("Expected missing key to default to %s, got %q", d2, stored[1].Key)
	}
}

func TestToggleTask(t *testing.T) {
	var emitted []progress.StatusList
	f := newUserFixture(t, nil, progress.Options{
		OnReplace: func(userID string, list progress.StatusList) {
			emitted = append(emitted, list)
		},
	})
	d1 := testutil.CreateTestDay(t, f.db, 1, "")
	d2 := testutil.CreateTestDay(t, f.db, 2, "")
	testutil.CreateTestCalendar(t, f.db, "cal", "", d1, d2)
	userID := testutil.CreateTestUser(t, f.db, "kari@example.no", progress.Seed([]progress.Item{{ID: d1}, {ID: d2}}))

	w := f.do("POST", "/users/kari@example.no/tasks/"+d2+"/toggle", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProgressResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Completed != 1 || !resp.Tasks[1].Completed {
		t.Errorf("Expected day 2 completed, got %+v", resp)
	}
	if stored := testutil.LoadTestStatuses(t, f.db, userID); !stored[1].Completed || stored[0].Completed {
		t.Errorf("Expected only day 2 completed in storage, got %+v", stored)
	}
	if len(emitted) != 1 {
		t.Errorf("Expected 1 emission, got %d", len(emitted))
	}

	// unknown day is a silent no-op
	w = f.do("POST", "/users/kari@example.no/tasks/day-99/toggle", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	if len(emitted) != 1 {
		t.Errorf("Expected no emission for unknown day, got %d", len(emitted))
	}

	w = f.do("POST", "/users/nobody@example.no/tasks/"+d1+"/toggle", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestToggleTaskReadOnly(t *testing.T) {
	f := newUserFixture(t, nil, progress.Options{ReadOnly: true})
	d1 := testutil.CreateTestDay(t, f.db, 1, "")
	testutil.CreateTestCalendar(t, f.db, "cal", "", d1)
	userID := testutil.CreateTestUser(t, f.db, "kari@example.no", progress.Seed([]progress.Item{{ID: d1}}))

	w := f.do("POST", "/users/kari@example.no/tasks/"+d1+"/toggle", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProgressResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Completed != 0 || !resp.ReadOnly {
		t.Errorf("Expected unchanged read-only progress, got %+v", resp)
	}
	if testutil.LoadTestStatuses(t, f.db, userID)[0].Completed {
		t.Error("Read-only toggle must not write")
	}
}

func TestSyncErrorsMapToStatus(t *testing.T) {
	f := newUserFixture(t, failingSource{err: errors.New("connection refused")}, progress.Options{})
	userID := testutil.CreateTestUser(t, f.db, "kari@example.no", progress.StatusList{
		{Key: "day-1", ItemRef: &progress.Reference{Ref: "day-1"}, Completed: true},
	})

	w := f.do("GET", "/users/kari@example.no/progress", nil)
	testutil.AssertStatus(t, w, http.StatusBadGateway)

	w = f.do("POST", "/users/kari@example.no/tasks/day-1/toggle", nil)
	testutil.AssertStatus(t, w, http.StatusBadGateway)

	stored := testutil.LoadTestStatuses(t, f.db, userID)
	if len(stored) != 1 || !stored[0].Completed || stored[0].ItemRef.Type != "" {
		t.Errorf("Fetch failure must leave the stored list untouched, got %+v", stored)
	}
}

func TestWriteSyncError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fetch", &progress.FetchError{Err: errors.New("down")}, http.StatusBadGateway},
		{"duplicates", progress.ErrDuplicateItems, http.StatusBadGateway},
		{"superseded", progress.ErrSuperseded, http.StatusConflict},
		{"missing user", content.ErrNotFound, http.StatusNotFound},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeSyncError(w, "u1", tt.err)
			testutil.AssertStatus(t, w, tt.want)
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"kari@example.no", true},
		{"kari.nordmann+jul@example.co.uk", true},
		{"", false},
		{"kari", false},
		{"kari@", false},
		{"Kari <kari@example.no>", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.in); got != tt.want {
			t.Errorf("ValidEmail(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
