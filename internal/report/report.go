// Package report renders check reports for terminals and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/starford/papercheck/internal/models"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const ruleWidth = 60

var marks = map[models.Status]string{
	models.StatusPass: "✓",
	models.StatusWarn: "⚠",
	models.StatusFail: "✗",
}

// Options controls text rendering.
type Options struct {
	Color bool
}

type palette struct {
	pass, warn, fail, heading, plain lipgloss.Style
	color                            bool
}

// newPalette binds styles to w. Color is decided by the caller, not by
// probing w, so piped output stays plain and forced color survives pipes.
func newPalette(w io.Writer, color bool) palette {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return palette{
		pass:    r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		heading: r.NewStyle().Bold(true),
		plain:   r.NewStyle(),
		color:   color,
	}
}

func (p palette) mark(s models.Status, text string) string {
	if !p.color {
		return text
	}
	return p.styleFor(s).Render(text)
}

func (p palette) title(text string) string {
	if !p.color {
		return text
	}
	return p.heading.Render(text)
}

// Text writes the human-readable report.
func Text(w io.Writer, r models.Report, opts Options) error {
	p := newPalette(w, opts.Color)
	var b strings.Builder

	fmt.Fprintf(&b, "Verifying format compliance of: %s\n", r.Path)
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")

	for i, c := range r.Checks {
		fmt.Fprintf(&b, "\n%s\n", p.title(fmt.Sprintf("[Check %d: %s]", i+1, c.Title)))
		for _, l := range c.Lines {
			switch {
			case l.Mark != "":
				fmt.Fprintf(&b, "  %s\n", p.mark(l.Mark, marks[l.Mark]+" "+l.Text))
			case l.Detail:
				fmt.Fprintf(&b, "    %s\n", l.Text)
			default:
				fmt.Fprintf(&b, "  %s\n", l.Text)
			}
		}
	}

	if r.Error != "" {
		fmt.Fprintf(&b, "\n%s\n", p.mark(models.StatusFail, "✗ Error during verification: "+r.Error))
	}

	b.WriteString("\n" + strings.Repeat("=", ruleWidth) + "\n")
	if r.Verdict {
		b.WriteString(p.mark(models.StatusPass, "RESULT: All critical checks PASSED ✓") + "\n")
	} else {
		b.WriteString(p.mark(models.StatusWarn, "RESULT: Some checks FAILED or need review ⚠") + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, r models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Write renders r in the given format.
func Write(w io.Writer, format string, r models.Report, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, r)
	case FormatText, "":
		return Text(w, r, opts)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}
