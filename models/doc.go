// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreateUserRequest: name, email

# Response Types

  - CreateUserResponse: user, task_completion_status
  - CalendarResponse: calendar metadata, countdown, day groups
  - DayResponse: full day document with previous/next links
  - DefinitionsResponse: definitions grouped by first letter
  - AnswersResponse: answers with a humanized "updated ago"
  - ProgressResponse: completed/total, percent, next step, per-day rows
  - LiveMessage: websocket push for status list replacements
  - ErrorResponse: error, message

# Domain Types

  - Calendar: the advent calendar and its ordered days
  - CalendarDay: one day with intro, break content and activities
  - Activity: tech or design task (objectives, code examples, resources)
  - Category, Definition, Answer, User

Rich text fields are json.RawMessage and are returned exactly as stored.

# Constants

	UncategorizedID    = "uncategorized"
	UncategorizedTitle = "Other Days"

	MessageStatusReplace = "status_replace"
*/
package models
