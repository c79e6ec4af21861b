// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	ReadOnly     bool
	Timezone     string
	LogFile      string
	LogFormat    string
}

// Location returns the calendar timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseFlags validates flags and fills in env fallbacks and defaults
func ParseFlags(args []string) (Config, error) {
	cfg, _, err := Parse("julekalender", args, nil)
	return cfg, err
}

// Parse is ParseFlags for subcommands. extra may register command specific
// flags on the set; the positional arguments left after parsing are returned.
func Parse(name string, args []string, extra func(fs *flag.FlagSet)) (Config, []string, error) {
	var cfg Config
	var envFile string
	var readOnly string

	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&readOnly, "read-only", "", "Disable task toggles (true/false)")
	fs.StringVar(&cfg.Timezone, "tz", "", "Calendar timezone")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Write logs to a rotating file")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	if extra != nil {
		extra(fs)
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	// Real environment always wins over the dotenv file
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, nil, errors.New("failed to load env file " + envFile)
			}
		}
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, nil, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, nil, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, nil, errors.New("database type must be sqlite or postgres")
	}

	if readOnly == "" {
		readOnly = os.Getenv("READ_ONLY")
	}
	if readOnly != "" {
		v, err := strconv.ParseBool(readOnly)
		if err != nil {
			return Config{}, nil, errors.New("invalid READ_ONLY value")
		}
		cfg.ReadOnly = v
	}

	if cfg.Timezone == "" {
		cfg.Timezone = os.Getenv("CALENDAR_TIMEZONE")
		if cfg.Timezone == "" {
			cfg.Timezone = "Europe/Oslo"
		}
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, nil, errors.New("unknown timezone " + cfg.Timezone)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = os.Getenv("LOG_FILE")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = os.Getenv("LOG_FORMAT")
		if cfg.LogFormat == "" {
			cfg.LogFormat = LogFormatText
		}
	}
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return Config{}, nil, errors.New("log format must be text or json")
	}

	return cfg, fs.Args(), nil
}
