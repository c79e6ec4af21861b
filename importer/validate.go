// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/mail"
	"strings"
	"time"
)

// ValidationError lists every problem found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content is invalid:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

// Validate checks a document the way the content editor does: required
// titles, day numbers 1-24, known categories and days, unique slugs and
// valid emails. Days may reference categories and calendars may reference
// days that already exist in the database, so known holds those IDs.
func Validate(doc *Document, known Known) error {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	categories := copySet(known.Categories)
	for i, c := range doc.Categories {
		if c.ID == "" {
			report("categories[%d]: id is required", i)
		}
		if strings.TrimSpace(c.Title) == "" {
			report("categories[%d]: a category title is required", i)
		}
		categories[c.ID] = true
	}

	days := copySet(known.Days)
	slugs := map[string]string{}
	for i, d := range doc.Days {
		where := fmt.Sprintf("days[%d]", i)
		if d.ID == "" {
			report("%s: id is required", where)
		} else {
			where = fmt.Sprintf("day %s", d.ID)
		}

		switch {
		case d.DayNumber == 0:
			report("%s: day number is required", where)
		case d.DayNumber != math.Trunc(d.DayNumber):
			report("%s: day must be a whole number", where)
		case d.DayNumber < 1:
			report("%s: day must be at least 1", where)
		case d.DayNumber > 24:
			report("%s: day must be at most 24", where)
		}

		if strings.TrimSpace(d.Title) == "" {
			report("%s: a day title is required", where)
		}
		if d.Slug == "" {
			report("%s: slug is required", where)
		} else if other, ok := slugs[d.Slug]; ok {
			report("%s: slug %q is already used by %s", where, d.Slug, other)
		} else {
			slugs[d.Slug] = where
		}

		if d.Category == "" {
			report("%s: a category is required", where)
		} else if !categories[d.Category] {
			report("%s: unknown category %q", where, d.Category)
		}

		if d.TechActivity != nil && strings.TrimSpace(d.TechActivity.Title) == "" {
			report("%s: tech activity title is required", where)
		}
		if d.DesignActivity != nil && strings.TrimSpace(d.DesignActivity.Title) == "" {
			report("%s: design activity title is required", where)
		}

		days[d.ID] = true
	}

	if cal := doc.Calendar; cal != nil {
		if cal.ID == "" {
			report("calendar: id is required")
		}
		if strings.TrimSpace(cal.Title) == "" {
			report("calendar: a calendar title is required")
		}
		if cal.StartDate == "" {
			report("calendar: start date is required")
		} else if _, err := time.Parse(time.DateOnly, cal.StartDate); err != nil {
			report("calendar: start date %q is not YYYY-MM-DD", cal.StartDate)
		}
		if len(cal.Days) < 1 {
			report("calendar: at least one day is required")
		}
		if len(cal.Days) > 24 {
			slog.Warn("calendar typically has 24 days", "days", len(cal.Days))
		}
		listed := map[string]bool{}
		for _, id := range cal.Days {
			if !days[id] {
				report("calendar: unknown day %q", id)
			}
			if listed[id] {
				report("calendar: day %q listed more than once", id)
			}
			listed[id] = true
		}
	}

	for i, def := range doc.Definitions {
		if def.ID == "" {
			report("definitions[%d]: id is required", i)
		}
		if strings.TrimSpace(def.Title) == "" {
			report("definitions[%d]: a title is required", i)
		}
	}

	for i, a := range doc.Answers {
		if a.ID == "" {
			report("answers[%d]: id is required", i)
		}
		if strings.TrimSpace(a.Title) == "" {
			report("answers[%d]: a title is required", i)
		}
		if a.Content == nil {
			report("answers[%d]: content is required", i)
		}
	}

	for i, u := range doc.Users {
		if strings.TrimSpace(u.Name) == "" {
			report("users[%d]: name is required", i)
		}
		if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
			report("users[%d]: %q is not a valid email", i, u.Email)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Known holds IDs already present in the database.
type Known struct {
	Categories map[string]bool
	Days       map[string]bool
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// IsValidation reports whether err came from Validate
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
