// Package models defines the domain types for papercheck.
package models

import "time"

// Status is the outcome of a single check or of one printed line.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Line is one printed line of a check. Lines without a Mark are informational.
type Line struct {
	Mark   Status `json:"mark,omitempty"`
	Text   string `json:"text"`
	Detail bool   `json:"detail,omitempty"`
}

// CheckResult is the outcome of one format check.
type CheckResult struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Critical bool   `json:"critical"`
	Lines    []Line `json:"lines"`
}

// Stats holds document size counters gathered during a run.
type Stats struct {
	Paragraphs int `json:"paragraphs"`
	Characters int `json:"characters"`
}

// Report is the full result of checking one document.
type Report struct {
	Path     string        `json:"path"`
	Checks   []CheckResult `json:"checks"`
	Sections []string      `json:"sections"`
	Stats    Stats         `json:"stats"`
	Verdict  bool          `json:"verdict"`
	Error    string        `json:"error,omitempty"`
}

// Failed returns the critical checks that did not pass.
func (r *Report) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if c.Critical && c.Status != StatusPass {
			out = append(out, c)
		}
	}
	return out
}

// Outcome classifies the report as "passed", "failed" or "errored".
func (r *Report) Outcome() string {
	switch {
	case r.Error != "":
		return "errored"
	case r.Verdict:
		return "passed"
	default:
		return "failed"
	}
}

// Run is a recorded check of one document.
type Run struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Report    Report    `json:"report"`
	CheckedAt time.Time `json:"checked_at"`
}

// DocumentMetadata describes a document in the library.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
