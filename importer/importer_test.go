// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/julekalender/content"
	"github.com/danielhkuo/julekalender/testutil"
)

const yamlDoc = `
categories:
  - id: cat-tech
    title: Tech
days:
  - id: day-1
    day_number: 1
    title: Velkommen
    slug: velkommen
    category: cat-tech
    intro:
      - _type: block
        text: Hei
    tech_activity:
      title: Sett opp Go
      objectives: [installere, kjøre]
      code_examples:
        - filename: main.go
          language: go
          code: fmt.Println("hei")
  - id: day-2
    day_number: 2
    title: Pause
    slug: pause
    category: cat-tech
    is_break: true
calendar:
  id: jul-2025
  title: Julekalender 2025
  start_date: "2025-12-01"
  days: [day-1, day-2]
definitions:
  - id: def-1
    title: API
answers:
  - id: ans-1
    title: Løsning
    content: [{_type: block}]
users:
  - name: Ada
    email: ada@example.com
`

const tomlDoc = `
[[categories]]
id = "cat-tech"
title = "Tech"

[[days]]
id = "day-1"
day_number = 1
title = "Velkommen"
slug = "velkommen"
category = "cat-tech"

[calendar]
id = "jul-2025"
title = "Julekalender 2025"
start_date = "2025-12-01"
days = ["day-1"]
`

const jsonDoc = `{
  "categories": [{"id": "cat-tech", "title": "Tech"}],
  "days": [{"id": "day-1", "day_number": 1, "title": "Velkommen", "slug": "velkommen", "category": "cat-tech"}],
  "calendar": {"id": "jul-2025", "title": "Julekalender 2025", "start_date": "2025-12-01", "days": ["day-1"]}
}`

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"yaml", yamlDoc, FormatYAML},
		{"toml", tomlDoc, FormatTOML},
		{"json", jsonDoc, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(doc.Days) == 0 || doc.Days[0].DayNumber != 1 || doc.Days[0].Category != "cat-tech" {
				t.Errorf("Unexpected days: %+v", doc.Days)
			}
			if doc.Calendar == nil || doc.Calendar.StartDate != "2025-12-01" {
				t.Errorf("Unexpected calendar: %+v", doc.Calendar)
			}
			if err := Validate(doc, Known{}); err != nil {
				t.Errorf("Expected valid document, got %v", err)
			}
		})
	}
}

func TestDecodeRejectsUnknownJSONFields(t *testing.T) {
	_, err := Decode([]byte(`{"dayz": []}`), FormatJSON)
	if err == nil {
		t.Fatal("Expected error for unknown field")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"content.yaml", FormatYAML, false},
		{"content.YML", FormatYAML, false},
		{"content.toml", FormatTOML, false},
		{"content.json", FormatJSON, false},
		{"content.txt", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Document {
		return &Document{
			Categories: []Category{{ID: "cat", Title: "Tech"}},
			Days:       []Day{{ID: "d1", DayNumber: 1, Title: "Dag 1", Slug: "dag-1", Category: "cat"}},
			Calendar:   &Calendar{ID: "cal", Title: "Jul", StartDate: "2025-12-01", Days: []string{"d1"}},
			Users:      []User{{Name: "Ada", Email: "ada@example.com"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Document)
		known   Known
		problem string
	}{
		{"valid", func(*Document) {}, Known{}, ""},
		{"missing day number", func(d *Document) { d.Days[0].DayNumber = 0 }, Known{}, "day number is required"},
		{"fractional day", func(d *Document) { d.Days[0].DayNumber = 1.5 }, Known{}, "whole number"},
		{"day too large", func(d *Document) { d.Days[0].DayNumber = 25 }, Known{}, "at most 24"},
		{"negative day", func(d *Document) { d.Days[0].DayNumber = -1 }, Known{}, "at least 1"},
		{"blank title", func(d *Document) { d.Days[0].Title = "  " }, Known{}, "day title is required"},
		{"missing slug", func(d *Document) { d.Days[0].Slug = "" }, Known{}, "slug is required"},
		{"duplicate slug", func(d *Document) {
			d.Days = append(d.Days, Day{ID: "d2", DayNumber: 2, Title: "Dag 2", Slug: "dag-1", Category: "cat"})
		}, Known{}, "already used"},
		{"unknown category", func(d *Document) { d.Days[0].Category = "nope" }, Known{}, "unknown category"},
		{"stored category", func(d *Document) {
			d.Categories = nil
		}, Known{Categories: map[string]bool{"cat": true}}, ""},
		{"untitled activity", func(d *Document) { d.Days[0].DesignActivity = &Activity{} }, Known{}, "design activity title"},
		{"bad start date", func(d *Document) { d.Calendar.StartDate = "01.12.2025" }, Known{}, "not YYYY-MM-DD"},
		{"empty calendar", func(d *Document) { d.Calendar.Days = nil }, Known{}, "at least one day"},
		{"unknown calendar day", func(d *Document) { d.Calendar.Days = []string{"d9"} }, Known{}, "unknown day"},
		{"stored calendar day", func(d *Document) {
			d.Calendar.Days = []string{"d1", "d9"}
		}, Known{Days: map[string]bool{"d9": true}}, ""},
		{"repeated calendar day", func(d *Document) { d.Calendar.Days = []string{"d1", "d1"} }, Known{}, "listed more than once"},
		{"bad email", func(d *Document) { d.Users[0].Email = "ada" }, Known{}, "not a valid email"},
		{"named email", func(d *Document) { d.Users[0].Email = "Ada <ada@example.com>" }, Known{}, "not a valid email"},
		{"missing name", func(d *Document) { d.Users[0].Name = "" }, Known{}, "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			tt.mutate(doc)

			err := Validate(doc, tt.known)
			if tt.problem == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !IsValidation(err) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.problem) {
				t.Errorf("Expected %q in %v", tt.problem, err)
			}
		})
	}
}

func TestApply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := content.NewRepo(db)
	ctx := context.Background()

	doc, err := Decode([]byte(yamlDoc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	summary, err := New(repo).Apply(ctx, doc)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := Summary{Categories: 1, Days: 2, Calendars: 1, Definitions: 1, Answers: 1, Users: 1}
	if summary != want {
		t.Errorf("Summary = %+v, want %+v", summary, want)
	}

	cal, err := repo.PrimaryCalendar(ctx)
	if err != nil {
		t.Fatalf("PrimaryCalendar failed: %v", err)
	}
	if len(cal.Days) != 2 || cal.Days[0].ID != "day-1" || !cal.Days[1].IsBreak {
		t.Fatalf("Unexpected calendar days: %+v", cal.Days)
	}
	day := cal.Days[0]
	if day.Category == nil || day.Category.Title != "Tech" {
		t.Errorf("Expected category Tech, got %+v", day.Category)
	}
	if day.TechActivity == nil || len(day.TechActivity.CodeExamples) != 1 || day.TechActivity.CodeExamples[0].Language != "go" {
		t.Errorf("Unexpected tech activity: %+v", day.TechActivity)
	}
	if !strings.Contains(string(day.Intro), `"text":"Hei"`) {
		t.Errorf("Expected intro stored as JSON, got %s", day.Intro)
	}

	user, err := repo.UserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	statuses, err := repo.LoadStatuses(ctx, user.ID)
	if err != nil {
		t.Fatalf("LoadStatuses failed: %v", err)
	}
	if len(statuses) != 2 || statuses[0].RefID() != "day-1" || statuses[0].Completed {
		t.Errorf("Unexpected seeded statuses: %+v", statuses)
	}

	// re-importing keeps user progress
	statuses[0].Completed = true
	if err := repo.ReplaceStatuses(ctx, user.ID, statuses); err != nil {
		t.Fatalf("ReplaceStatuses failed: %v", err)
	}
	if _, err := New(repo).Apply(ctx, doc); err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	statuses, err = repo.LoadStatuses(ctx, user.ID)
	if err != nil {
		t.Fatalf("LoadStatuses failed: %v", err)
	}
	if !statuses[0].Completed {
		t.Error("Expected progress to survive re-import")
	}
}

func TestApplyInvalidWritesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := content.NewRepo(db)
	ctx := context.Background()

	doc := &Document{
		Categories: []Category{{ID: "cat", Title: "Tech"}},
		Days:       []Day{{ID: "d1", DayNumber: 30, Title: "Dag", Slug: "dag", Category: "cat"}},
	}

	_, err := New(repo).Apply(ctx, doc)
	if !IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	ids, err := repo.CategoryIDs(ctx)
	if err != nil {
		t.Fatalf("CategoryIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no categories written, got %v", ids)
	}
}

func TestApplyReferencesStoredContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := content.NewRepo(db)
	ctx := context.Background()

	cat := testutil.CreateTestCategory(t, db, "cat-old", "Design")
	d1 := testutil.CreateTestDay(t, db, 1, cat)

	doc := &Document{
		Days:     []Day{{ID: "d2", DayNumber: 2, Title: "Dag 2", Slug: "ny-dag", Category: cat}},
		Calendar: &Calendar{ID: "cal", Title: "Jul", StartDate: "2025-12-01", Days: []string{d1, "d2"}},
	}

	if _, err := New(repo).Apply(ctx, doc); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	items, err := repo.CanonicalItems(ctx)
	if err != nil {
		t.Fatalf("CanonicalItems failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != d1 || items[1].ID != "d2" {
		t.Errorf("Unexpected canonical items: %+v", items)
	}
}

func TestImportFile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := content.NewRepo(db)

	path := filepath.Join(t.TempDir(), "content.toml")
	if err := os.WriteFile(path, []byte(tomlDoc), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	summary, err := New(repo).ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if summary.Days != 1 || summary.Calendars != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	if _, err := New(repo).ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	if err := os.WriteFile(path, []byte("days: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func() error {
			calls.Add(1)
			changed <- struct{}{}
			return errors.New("ignored")
		})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("days: []\n"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected onChange after write")
	}

	// a burst of writes collapses into one call
	time.Sleep(3 * DebounceDelay)
	if n := calls.Load(); n != 1 {
		t.Errorf("Expected 1 call, got %d", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}
