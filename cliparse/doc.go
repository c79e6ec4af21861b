// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - ReadOnly: Reject task toggles (default: false)
  - Timezone: Timezone used to decide which days are open (default: Europe/Oslo)
  - LogFile: Rotating log file; empty logs to stderr
  - LogFormat: text or json (default: text)

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type
	-read-only   Disable toggles
	-tz          Calendar timezone
	-log-file    Log file path
	-log-format  Log format
	-env-file    Dotenv file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	READ_ONLY         → -read-only
	CALENDAR_TIMEZONE → -tz
	LOG_FILE          → -log-file
	LOG_FORMAT        → -log-format

CLI flags take precedence over environment variables. Values from the dotenv
file are only used for variables not already set in the environment.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is not sqlite or postgres
  - READ_ONLY is not a boolean
  - the timezone is unknown
  - LOG_FORMAT is not text or json
*/
package cliparse
