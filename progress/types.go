// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package progress

const (
	TypeReference  = "reference"
	TypeTaskStatus = "taskStatus"
)

// Item is a canonical calendar day as seen by the reconciler.
type Item struct {
	ID   string
	Rank int
}

type Reference struct {
	Type string `json:"_type,omitempty"`
	Ref  string `json:"_ref"`
}

// Entry is one user's completion state for one calendar day.
type Entry struct {
	Key       string     `json:"_key,omitempty"`
	Type      string     `json:"_type,omitempty"`
	ItemRef   *Reference `json:"calendarDay,omitempty"`
	Completed bool       `json:"completed"`
}

// RefID returns the referenced item id, or "" when the entry has no reference.
func (e Entry) RefID() string {
	if e.ItemRef == nil {
		return ""
	}
	return e.ItemRef.Ref
}

type StatusList []Entry

// CompletedCount returns the number of entries marked completed.
func (l StatusList) CompletedCount() int {
	n := 0
	for _, e := range l {
		if e.Completed {
			n++
		}
	}
	return n
}
