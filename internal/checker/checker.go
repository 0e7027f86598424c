// Package checker runs heuristic formatting checks against a parsed
// document body and produces a report with an overall verdict.
package checker

import (
	"strings"

	"github.com/starford/papercheck/internal/docx"
	"github.com/starford/papercheck/internal/models"
)

// Checker evaluates documents against a fixed set of rules.
type Checker struct {
	rules Rules
}

// New returns a Checker for rules.
func New(rules Rules) *Checker {
	return &Checker{rules: rules}
}

// Rules returns the rules the checker applies.
func (c *Checker) Rules() Rules {
	return c.rules
}

// outcome is what a single check found. Negative lines are marked
// StatusWarn and escalated to StatusFail when a critical check misses.
type outcome struct {
	ok      bool
	message string
	lines   []models.Line
}

func (o *outcome) info(text string) {
	o.lines = append(o.lines, models.Line{Text: text})
}

func (o *outcome) detail(text string) {
	o.lines = append(o.lines, models.Line{Text: text, Detail: true})
}

func (o *outcome) pass(text string) {
	o.ok = true
	o.message = text
	o.lines = append(o.lines, models.Line{Mark: models.StatusPass, Text: text})
}

func (o *outcome) miss(text string) {
	o.message = text
	o.lines = append(o.lines, models.Line{Mark: models.StatusWarn, Text: text})
}

// body is the per-run view of the document shared by all checks.
type body struct {
	doc        *docx.Document
	paragraphs []*docx.Node
	texts      []string // trimmed paragraph text
	raw        []string // untrimmed paragraph text
}

func newBody(doc *docx.Document) *body {
	b := &body{doc: doc, paragraphs: doc.Paragraphs()}
	b.texts = make([]string, len(b.paragraphs))
	b.raw = make([]string, len(b.paragraphs))
	for i, p := range b.paragraphs {
		b.raw[i] = docx.ParagraphText(p)
		b.texts[i] = strings.TrimSpace(b.raw[i])
	}
	return b
}

type check struct {
	name  string
	title func(Rules) string
	run   func(*body, Rules, *models.Report) outcome
}

var checks = []check{
	{CheckColumns, columnsTitle, checkColumns},
	{CheckSections, fixedTitle("Section Structure"), checkSections},
	{CheckAbstract, fixedTitle("Abstract"), checkAbstract},
	{CheckReferences, fixedTitle("References"), checkReferences},
	{CheckStatistics, fixedTitle("Document Statistics"), checkStatistics},
}

func fixedTitle(s string) func(Rules) string {
	return func(Rules) string { return s }
}

// Run evaluates every check against doc.
func (c *Checker) Run(doc *docx.Document) models.Report {
	report := models.Report{Path: doc.Path, Verdict: true}
	b := newBody(doc)

	for _, ch := range checks {
		out := ch.run(b, c.rules, &report)
		res := models.CheckResult{
			Name:     ch.name,
			Title:    ch.title(c.rules),
			Message:  out.message,
			Critical: c.rules.isCritical(ch.name),
			Lines:    out.lines,
		}
		switch {
		case out.ok:
			res.Status = models.StatusPass
		case res.Critical:
			res.Status = models.StatusFail
			report.Verdict = false
		default:
			res.Status = models.StatusWarn
		}
		if res.Status == models.StatusFail {
			for i := range res.Lines {
				if res.Lines[i].Mark == models.StatusWarn {
					res.Lines[i].Mark = models.StatusFail
				}
			}
		}
		report.Checks = append(report.Checks, res)
	}
	return report
}

// CheckFile opens the document at path and evaluates it. Open and parse
// failures produce a report with Error set, no checks and a failed verdict.
func (c *Checker) CheckFile(path string) models.Report {
	doc, err := docx.Open(path)
	if err != nil {
		return models.Report{Path: path, Error: err.Error()}
	}
	return c.Run(doc)
}

// CheckBytes evaluates an in-memory document reported under name.
func (c *Checker) CheckBytes(name string, data []byte) models.Report {
	doc, err := docx.ReadBytes(data)
	if err != nil {
		return models.Report{Path: name, Error: err.Error()}
	}
	doc.Path = name
	return c.Run(doc)
}
