// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danielhkuo/julekalender/models"
)

var norwegian = language.MustParse("nb")

// groupDefinitions groups definitions by the upper-cased first letter of
// their title. Letters and titles are ordered the Norwegian way, so Æ, Ø
// and Å come after Z. Untitled definitions are left out.
func groupDefinitions(defs []models.Definition) []models.DefinitionGroup {
	col := collate.New(norwegian)

	byLetter := map[string][]models.Definition{}
	var letters []string
	for _, def := range defs {
		title := strings.TrimSpace(def.Title)
		if title == "" {
			continue
		}

		letter := firstLetter(title)
		if _, ok := byLetter[letter]; !ok {
			letters = append(letters, letter)
		}
		byLetter[letter] = append(byLetter[letter], def)
	}

	sort.SliceStable(letters, func(i, j int) bool {
		return col.CompareString(letters[i], letters[j]) < 0
	})

	groups := make([]models.DefinitionGroup, 0, len(letters))
	for _, letter := range letters {
		entries := byLetter[letter]
		sort.SliceStable(entries, func(i, j int) bool {
			return col.CompareString(strings.TrimSpace(entries[i].Title), strings.TrimSpace(entries[j].Title)) < 0
		})
		groups = append(groups, models.DefinitionGroup{Letter: letter, Definitions: entries})
	}
	return groups
}

func firstLetter(title string) string {
	r, _ := utf8.DecodeRuneInString(title)
	if r == utf8.RuneError {
		return "#"
	}
	return string(unicode.ToUpper(r))
}
