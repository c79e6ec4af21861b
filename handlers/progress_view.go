// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"

	"github.com/danielhkuo/julekalender/models"
	"github.com/danielhkuo/julekalender/progress"
)

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// buildProgress summarizes a reconciled status list. days maps day IDs to
// their documents; entries for unknown days keep an empty title.
func buildProgress(user models.User, list progress.StatusList, days map[string]models.CalendarDay, readOnly bool) models.ProgressResponse {
	resp := models.ProgressResponse{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Completed: list.CompletedCount(),
		Total:     len(list),
		ReadOnly:  readOnly,
		Tasks:     make([]models.TaskProgress, 0, len(list)),
	}
	resp.Percent = percent(resp.Completed, resp.Total)
	resp.AllDone = resp.Total > 0 && resp.Completed == resp.Total

	for _, entry := range list {
		day := days[entry.RefID()]
		task := models.TaskProgress{
			DayID:     entry.RefID(),
			DayNumber: day.DayNumber,
			Title:     day.Title,
			Slug:      day.Slug,
			Completed: entry.Completed,
		}
		if day.Category != nil {
			task.Category = day.Category.Title
		}
		if !entry.Completed && resp.NextStep == "" {
			resp.NextStep = day.Title
		}
		resp.Tasks = append(resp.Tasks, task)
	}

	return resp
}
