// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/julekalender/models"
)

// Group colours cycle bronze, silver, gold
var groupColors = []string{"#CD7F32", "#C0C0C0", "#FFD700"}

var dayEmojis = []string{
	"🎄", "🎁", "❄️", "🦌", "⛄", "🕯️", "🎅", "🌟",
	"🎆", "🔔", "🎉", "☃️", "🛷", "🎪", "🎈", "🎀",
	"🍪", "🎁", "🎊", "🎁", "🎋", "🎄", "⭐", "🎁",
}

func dayEmoji(dayNumber int) string {
	if dayNumber < 1 {
		return dayEmojis[0]
	}
	return dayEmojis[(dayNumber-1)%len(dayEmojis)]
}

// parseStartDate accepts a plain date or an RFC 3339 timestamp. A plain date
// means midnight in loc.
func parseStartDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// dayAvailable reports whether a day can be opened at now. Day n opens at
// midnight n-1 days after the start date. Break days and calendars without
// a start date are always open.
func dayAvailable(day models.CalendarDay, start time.Time, hasStart bool, now time.Time, loc *time.Location) bool {
	if day.IsBreak || !hasStart {
		return true
	}
	opens := midnight(start, loc).AddDate(0, 0, day.DayNumber-1)
	return !midnight(now, loc).Before(opens)
}

// countdown returns the whole days left until start, rounded up, or nil once
// the start has passed.
func countdown(start, now time.Time) *models.Countdown {
	days := int(math.Ceil(start.Sub(now).Hours() / 24))
	if days < 0 {
		return nil
	}
	return &models.Countdown{
		DaysUntilStart: days,
		Label:          humanize.RelTime(start, now, "ago", "from now"),
	}
}

// buildCalendarResponse groups the calendar days by category in order of
// first appearance and annotates each day for display.
func buildCalendarResponse(cal models.Calendar, loc *time.Location, now time.Time) models.CalendarResponse {
	resp := models.CalendarResponse{
		ID:          cal.ID,
		Title:       cal.Title,
		Description: cal.Description,
		StartDate:   cal.StartDate,
		Intro:       cal.Intro,
		Groups:      []models.DayGroup{},
	}

	start, hasStart := parseStartDate(cal.StartDate, loc)
	if hasStart {
		resp.Countdown = countdown(start, now)
	}

	index := map[string]int{}
	for _, day := range cal.Days {
		category := models.Category{ID: models.UncategorizedID, Title: models.UncategorizedTitle}
		if day.Category != nil {
			category = *day.Category
		}

		i, ok := index[category.ID]
		if !ok {
			i = len(resp.Groups)
			index[category.ID] = i
			resp.Groups = append(resp.Groups, models.DayGroup{
				Category: category,
				Color:    groupColors[i%len(groupColors)],
				Days:     []models.DayCard{},
			})
		}

		resp.Groups[i].Days = append(resp.Groups[i].Days, models.DayCard{
			ID:        day.ID,
			DayNumber: day.DayNumber,
			Title:     day.Title,
			Slug:      day.Slug,
			Emoji:     dayEmoji(day.DayNumber),
			IsBreak:   day.IsBreak,
			Available: dayAvailable(day, start, hasStart, now, loc),
		})
	}

	return resp
}

// neighbours finds the days before and after slug in calendar order.
func neighbours(days []models.CalendarDay, slug string) (prev, next *models.DayLink) {
	for i, day := range days {
		if day.Slug != slug {
			continue
		}
		if i > 0 {
			prev = dayLink(days[i-1])
		}
		if i < len(days)-1 {
			next = dayLink(days[i+1])
		}
		return prev, next
	}
	return nil, nil
}

func dayLink(day models.CalendarDay) *models.DayLink {
	return &models.DayLink{Slug: day.Slug, DayNumber: day.DayNumber, Title: day.Title}
}
