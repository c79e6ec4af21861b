// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the julekalender API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	hub := live.NewHub()
	mux := router.NewRouter(db, cfg, hub)

# Endpoints

Health:

	GET /health

Calendar content (public):

	GET /calendar      - Primary calendar, days grouped by category
	GET /days/{slug}   - Day document with previous/next day
	GET /definitions   - Definitions grouped by first letter
	GET /answers       - Published answers

Users and progress:

	POST /users                                - Create user with seeded status list
	GET  /users/{email}                        - User details
	GET  /users/{email}/progress               - Reconciled progress summary
	POST /users/{email}/tasks/{dayID}/toggle   - Flip one day's completion
	GET  /users/{email}/live                   - Websocket stream of status list replacements

# Handler Initialization

The router builds one content.Repo and one progress.Syncer and shares them
between handlers. The Syncer publishes every status list write to the hub.
*/
package router
