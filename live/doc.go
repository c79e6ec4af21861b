// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package live pushes status list replacements to websocket clients.
//
// The Hub is wired as the progress.Syncer OnReplace callback, so every
// replace-whole-array write reaches the user's open connections as
//
//	{"type":"status_replace","user_id":"…","statuses":[…],"timestamp":"…"}
package live
