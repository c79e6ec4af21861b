// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package progress keeps a user's task completion status aligned with the
calendar days that currently exist.

# Data

A user's StatusList holds one Entry per calendar day. Entries reference a day
through ItemRef and carry a Completed flag:

	[
	  {"_key": "day-1", "_type": "taskStatus",
	   "calendarDay": {"_type": "reference", "_ref": "day-1"},
	   "completed": true}
	]

The list is persisted as a whole; every write replaces the complete array.

# Pure Operations

	normalized := progress.Reconcile(items, persisted)
	if progress.NeedsSync(persisted, normalized) {
		// replace the stored list with normalized
	}
	updated, ok := progress.Toggle(normalized, dayID)

Reconcile returns exactly one entry per canonical item, in item order.
Existing entries keep their key and Completed flag, missing ones are created
with Completed=false and entries for removed days are dropped.

NeedsSync compares lists position by position on the item reference and key
only. Completed changes are written by Toggle, never detected here.

# Syncer

Syncer runs fetch → reconcile → write for one user:

	syncer := progress.NewSyncer(source, store, progress.Options{})
	list, err := syncer.Sync(ctx, userID)
	list, err = syncer.Toggle(ctx, userID, dayID)

Writes for a user are serialized. A sync whose fetch finishes after a newer
request for the same user started returns ErrSuperseded and writes nothing.
Fetch failures are returned as *FetchError and leave the stored list alone.
*/
package progress
