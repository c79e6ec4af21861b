// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package importer loads calendar content from YAML, TOML or JSON files.
//
// A content file may hold categories, days, one calendar, definitions,
// answers and users. Files are validated against the rules the content
// editor enforces and then written in a single transaction:
//
//	categories:
//	  - id: cat-tech
//	    title: Tech
//	days:
//	  - id: day-1
//	    day_number: 1
//	    title: Velkommen
//	    slug: velkommen
//	    category: cat-tech
//	calendar:
//	  id: jul-2025
//	  title: Julekalender 2025
//	  start_date: "2025-12-01"
//	  days: [day-1]
//
// Users listed in a file are created with a status list seeded from every
// stored day. Existing users keep their progress.
//
// Watch re-runs an import whenever the file changes on disk.
package importer
