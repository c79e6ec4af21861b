// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/julekalender/models"
)

// Document is a content file. Rich text fields hold arbitrary block
// structures and are stored as JSON without interpretation.
type Document struct {
	Categories  []Category   `json:"categories" yaml:"categories" toml:"categories"`
	Days        []Day        `json:"days" yaml:"days" toml:"days"`
	Calendar    *Calendar    `json:"calendar" yaml:"calendar" toml:"calendar"`
	Definitions []Definition `json:"definitions" yaml:"definitions" toml:"definitions"`
	Answers     []Answer     `json:"answers" yaml:"answers" toml:"answers"`
	Users       []User       `json:"users" yaml:"users" toml:"users"`
}

type Category struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Identifier  string `json:"identifier" yaml:"identifier" toml:"identifier"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

type Day struct {
	ID             string    `json:"id" yaml:"id" toml:"id"`
	DayNumber      float64   `json:"day_number" yaml:"day_number" toml:"day_number"`
	Title          string    `json:"title" yaml:"title" toml:"title"`
	Description    string    `json:"description" yaml:"description" toml:"description"`
	Slug           string    `json:"slug" yaml:"slug" toml:"slug"`
	Category       string    `json:"category" yaml:"category" toml:"category"`
	IsBreak        bool      `json:"is_break" yaml:"is_break" toml:"is_break"`
	Intro          any       `json:"intro" yaml:"intro" toml:"intro"`
	BreakContent   any       `json:"break_content" yaml:"break_content" toml:"break_content"`
	TechActivity   *Activity `json:"tech_activity" yaml:"tech_activity" toml:"tech_activity"`
	DesignActivity *Activity `json:"design_activity" yaml:"design_activity" toml:"design_activity"`
}

type Activity struct {
	Title        string               `json:"title" yaml:"title" toml:"title"`
	Objectives   []string             `json:"objectives" yaml:"objectives" toml:"objectives"`
	Content      any                  `json:"content" yaml:"content" toml:"content"`
	CodeExamples []models.CodeExample `json:"code_examples" yaml:"code_examples" toml:"code_examples"`
	HandIn       any                  `json:"hand_in" yaml:"hand_in" toml:"hand_in"`
	Resources    []models.Resource    `json:"resources" yaml:"resources" toml:"resources"`
}

type Calendar struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Title       string   `json:"title" yaml:"title" toml:"title"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	StartDate   string   `json:"start_date" yaml:"start_date" toml:"start_date"`
	Intro       any      `json:"intro" yaml:"intro" toml:"intro"`
	OrderRank   string   `json:"order_rank" yaml:"order_rank" toml:"order_rank"`
	Days        []string `json:"days" yaml:"days" toml:"days"`
}

type Definition struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

type Answer struct {
	ID          string    `json:"id" yaml:"id" toml:"id"`
	Title       string    `json:"title" yaml:"title" toml:"title"`
	Description string    `json:"description" yaml:"description" toml:"description"`
	Content     any       `json:"content" yaml:"content" toml:"content"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
}

type User struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Email string `json:"email" yaml:"email" toml:"email"`
}

// Format is a content file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported content file %q: use .yaml, .yml, .toml or .json", path)
	}
}

// LoadFile reads and decodes a content file.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Decode(data, format)
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	return &doc, nil
}

// richText encodes a decoded rich text value as JSON. Absent values stay nil.
func richText(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rich text is not representable as JSON: %w", err)
	}
	return data, nil
}
