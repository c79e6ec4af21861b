// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package progress

// Reconcile aligns previous with items. The result has exactly one entry per
// item, in item order. Duplicate item ids are not collapsed; callers that
// care use DuplicateIDs first.
func Reconcile(items []Item, previous StatusList) StatusList {
	if len(items) == 0 {
		return StatusList{}
	}

	normalized := make(StatusList, 0, len(items))
	for _, item := range items {
		existing, ok := find(previous, item.ID)
		if !ok {
			normalized = append(normalized, newEntry(item.ID))
			continue
		}

		if existing.Key == "" {
			existing.Key = item.ID
		}
		// a stored reference is carried exactly as stored
		if existing.ItemRef == nil {
			existing.ItemRef = &Reference{Type: TypeReference, Ref: item.ID}
		}
		normalized = append(normalized, existing)
	}
	return normalized
}

// Seed builds the initial list for a new user: every item, nothing completed.
func Seed(items []Item) StatusList {
	return Reconcile(items, nil)
}

// NeedsSync reports whether reconciled differs from persisted in length or,
// at any position, in item reference or key. Completed is ignored.
func NeedsSync(persisted, reconciled StatusList) bool {
	if len(persisted) != len(reconciled) {
		return true
	}
	for i := range reconciled {
		if persisted[i].RefID() != reconciled[i].RefID() {
			return true
		}
		if persisted[i].Key != reconciled[i].Key {
			return true
		}
	}
	return false
}

// Toggle returns a copy of list with Completed inverted on the entry that
// references itemID. The bool is false when no entry matched; the copy is
// then identical to list.
func Toggle(list StatusList, itemID string) (StatusList, bool) {
	updated := make(StatusList, len(list))
	copy(updated, list)

	found := false
	for i := range updated {
		if updated[i].RefID() == itemID {
			updated[i].Completed = !updated[i].Completed
			found = true
		}
	}
	return updated, found
}

// DuplicateIDs returns the ids occurring more than once in items, in order
// of first appearance.
func DuplicateIDs(items []Item) []string {
	seen := make(map[string]int, len(items))
	var dups []string
	for _, item := range items {
		seen[item.ID]++
		if seen[item.ID] == 2 {
			dups = append(dups, item.ID)
		}
	}
	return dups
}

func find(list StatusList, itemID string) (Entry, bool) {
	for _, e := range list {
		if e.RefID() == itemID {
			return e, true
		}
	}
	return Entry{}, false
}

func newEntry(itemID string) Entry {
	return Entry{
		Key:       itemID,
		Type:      TypeTaskStatus,
		ItemRef:   &Reference{Type: TypeReference, Ref: itemID},
		Completed: false,
	}
}
