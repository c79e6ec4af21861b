// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/julekalender/content"
	"github.com/danielhkuo/julekalender/models"
	"github.com/danielhkuo/julekalender/progress"
)

// Summary counts what an import wrote
type Summary struct {
	Categories  int
	Days        int
	Calendars   int
	Definitions int
	Answers     int
	Users       int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d categories, %d days, %d calendars, %d definitions, %d answers, %d users",
		s.Categories, s.Days, s.Calendars, s.Definitions, s.Answers, s.Users)
}

type Importer struct {
	repo *content.Repo
}

func New(repo *content.Repo) *Importer {
	return &Importer{repo: repo}
}

// ImportFile loads, validates and applies a content file.
func (im *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return Summary{}, err
	}

	summary, err := im.Apply(ctx, doc)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("content imported", "file", path, "summary", summary.String())
	return summary, nil
}

// Apply validates doc against the current database and writes it in a
// single transaction. Nothing is written when validation fails.
func (im *Importer) Apply(ctx context.Context, doc *Document) (Summary, error) {
	var summary Summary

	err := im.repo.WithTx(ctx, func(tx *content.Repo) error {
		known, err := loadKnown(ctx, tx)
		if err != nil {
			return err
		}
		if err := Validate(doc, known); err != nil {
			return err
		}

		for _, c := range doc.Categories {
			if err := tx.UpsertCategory(ctx, models.Category(c)); err != nil {
				return err
			}
			summary.Categories++
		}

		for _, d := range doc.Days {
			day, err := d.toModel()
			if err != nil {
				return err
			}
			if err := tx.UpsertDay(ctx, day); err != nil {
				return err
			}
			summary.Days++
		}

		if cal := doc.Calendar; cal != nil {
			intro, err := richText(cal.Intro)
			if err != nil {
				return fmt.Errorf("calendar %s intro: %w", cal.ID, err)
			}
			err = tx.UpsertCalendar(ctx, models.Calendar{
				ID:          cal.ID,
				Title:       cal.Title,
				Description: cal.Description,
				StartDate:   cal.StartDate,
				Intro:       intro,
			}, cal.OrderRank, cal.Days)
			if err != nil {
				return err
			}
			summary.Calendars++
		}

		for _, def := range doc.Definitions {
			if err := tx.UpsertDefinition(ctx, models.Definition(def)); err != nil {
				return err
			}
			summary.Definitions++
		}

		for _, a := range doc.Answers {
			body, err := richText(a.Content)
			if err != nil {
				return fmt.Errorf("answer %s content: %w", a.ID, err)
			}
			err = tx.UpsertAnswer(ctx, models.Answer{
				ID:          a.ID,
				Title:       a.Title,
				Description: a.Description,
				Content:     body,
				UpdatedAt:   a.UpdatedAt,
			})
			if err != nil {
				return err
			}
			summary.Answers++
		}

		if len(doc.Users) > 0 {
			// seeded after the days above so new users see them
			items, err := tx.SeedItems(ctx)
			if err != nil {
				return err
			}
			seed := progress.Seed(items)
			for _, u := range doc.Users {
				if err := tx.UpsertUser(ctx, strings.TrimSpace(u.Name), u.Email, seed); err != nil {
					return err
				}
				summary.Users++
			}
		}

		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	return summary, nil
}

func loadKnown(ctx context.Context, repo *content.Repo) (Known, error) {
	categories, err := repo.CategoryIDs(ctx)
	if err != nil {
		return Known{}, err
	}
	days, err := repo.DayIDs(ctx)
	if err != nil {
		return Known{}, err
	}
	return Known{Categories: categories, Days: days}, nil
}

func (d Day) toModel() (models.CalendarDay, error) {
	day := models.CalendarDay{
		ID:          d.ID,
		DayNumber:   int(d.DayNumber),
		Title:       d.Title,
		Description: d.Description,
		Slug:        d.Slug,
		IsBreak:     d.IsBreak,
	}
	if d.Category != "" {
		day.Category = &models.Category{ID: d.Category}
	}

	var err error
	if day.Intro, err = richText(d.Intro); err != nil {
		return day, fmt.Errorf("day %s intro: %w", d.ID, err)
	}
	if day.BreakContent, err = richText(d.BreakContent); err != nil {
		return day, fmt.Errorf("day %s break content: %w", d.ID, err)
	}
	if day.TechActivity, err = d.TechActivity.toModel(); err != nil {
		return day, fmt.Errorf("day %s tech activity: %w", d.ID, err)
	}
	if day.DesignActivity, err = d.DesignActivity.toModel(); err != nil {
		return day, fmt.Errorf("day %s design activity: %w", d.ID, err)
	}
	return day, nil
}

func (a *Activity) toModel() (*models.Activity, error) {
	if a == nil {
		return nil, nil
	}

	body, err := richText(a.Content)
	if err != nil {
		return nil, err
	}
	handIn, err := richText(a.HandIn)
	if err != nil {
		return nil, err
	}

	return &models.Activity{
		Title:        a.Title,
		Objectives:   a.Objectives,
		Content:      body,
		CodeExamples: a.CodeExamples,
		HandIn:       handIn,
		Resources:    a.Resources,
	}, nil
}
