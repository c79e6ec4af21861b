package models

import (
	"encoding/json"
	"time"

	"github.com/danielhkuo/julekalender/progress"
)

// Uncategorized is the group for days without a category
const (
	UncategorizedID    = "uncategorized"
	UncategorizedTitle = "Other Days"
)

// Live message types
const (
	MessageStatusReplace = "status_replace"
)

// Request types

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Response types

type CreateUserResponse struct {
	User     User                `json:"user"`
	Statuses progress.StatusList `json:"task_completion_status"`
}

type CalendarResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	StartDate   string          `json:"start_date,omitempty"`
	Intro       json.RawMessage `json:"intro,omitempty"`
	Countdown   *Countdown      `json:"countdown,omitempty"`
	Groups      []DayGroup      `json:"groups"`
}

type Countdown struct {
	DaysUntilStart int    `json:"days_until_start"`
	Label          string `json:"label"`
}

type DayGroup struct {
	Category Category  `json:"category"`
	Color    string    `json:"color"`
	Days     []DayCard `json:"days"`
}

type DayCard struct {
	ID        string `json:"id"`
	DayNumber int    `json:"day_number"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Emoji     string `json:"emoji"`
	IsBreak   bool   `json:"is_break"`
	Available bool   `json:"available"`
}

type DayResponse struct {
	Day       CalendarDay `json:"day"`
	Available bool        `json:"available"`
	Previous  *DayLink    `json:"previous,omitempty"`
	Next      *DayLink    `json:"next,omitempty"`
}

type DayLink struct {
	Slug      string `json:"slug"`
	DayNumber int    `json:"day_number"`
	Title     string `json:"title"`
}

type DefinitionGroup struct {
	Letter      string       `json:"letter"`
	Definitions []Definition `json:"definitions"`
}

type DefinitionsResponse struct {
	Groups []DefinitionGroup `json:"groups"`
}

type AnswerSummary struct {
	Answer
	UpdatedAgo string `json:"updated_ago"`
}

type AnswersResponse struct {
	Answers []AnswerSummary `json:"answers"`
}

type ProgressResponse struct {
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Completed int            `json:"completed"`
	Total     int            `json:"total"`
	Percent   int            `json:"percent"`
	NextStep  string         `json:"next_step,omitempty"`
	AllDone   bool           `json:"all_done"`
	ReadOnly  bool           `json:"read_only"`
	Tasks     []TaskProgress `json:"tasks"`
}

type TaskProgress struct {
	DayID     string `json:"day_id"`
	DayNumber int    `json:"day_number"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Category  string `json:"category,omitempty"`
	Completed bool   `json:"completed"`
}

// LiveMessage is pushed to websocket subscribers of a user
type LiveMessage struct {
	Type      string              `json:"type"`
	UserID    string              `json:"user_id"`
	Statuses  progress.StatusList `json:"statuses"`
	Timestamp time.Time           `json:"timestamp"`
}

// Domain types

type Category struct {
	ID          string `json:"id"`
	Identifier  string `json:"identifier,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Resource struct {
	Title string `json:"title,omitempty" yaml:"title" toml:"title"`
	URL   string `json:"url" yaml:"url" toml:"url"`
}

type CodeExample struct {
	Language string `json:"language,omitempty" yaml:"language" toml:"language"`
	Code     string `json:"code" yaml:"code" toml:"code"`
	Filename string `json:"filename,omitempty" yaml:"filename" toml:"filename"`
}

// Activity is the tech or design task of a day. Content and HandIn are
// rich text blocks passed through untouched.
type Activity struct {
	Title        string          `json:"title"`
	Objectives   []string        `json:"objectives,omitempty"`
	Content      json.RawMessage `json:"content,omitempty"`
	CodeExamples []CodeExample   `json:"code_examples,omitempty"`
	HandIn       json.RawMessage `json:"hand_in,omitempty"`
	Resources    []Resource      `json:"resources,omitempty"`
}

type CalendarDay struct {
	ID             string          `json:"id"`
	DayNumber      int             `json:"day_number"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Slug           string          `json:"slug"`
	Category       *Category       `json:"category,omitempty"`
	IsBreak        bool            `json:"is_break"`
	Intro          json.RawMessage `json:"intro,omitempty"`
	BreakContent   json.RawMessage `json:"break_content,omitempty"`
	TechActivity   *Activity       `json:"tech_activity,omitempty"`
	DesignActivity *Activity       `json:"design_activity,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Calendar struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	StartDate   string          `json:"start_date,omitempty"` // YYYY-MM-DD
	Intro       json.RawMessage `json:"intro,omitempty"`
	Days        []CalendarDay   `json:"days"`
}

type Definition struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Answer struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Content     json.RawMessage `json:"content"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
