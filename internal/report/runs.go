package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/papercheck/internal/models"
)

var outcomeStatus = map[string]models.Status{
	"passed":  models.StatusPass,
	"failed":  models.StatusWarn,
	"errored": models.StatusFail,
}

// Runs writes recorded runs as a table, newest first, followed by a count line.
func Runs(w io.Writer, runs []models.Run, total int, opts Options) error {
	if len(runs) == 0 {
		_, err := io.WriteString(w, "No runs recorded.\n")
		return err
	}

	p := newPalette(w, opts.Color)
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.CheckedAt.Local().Format("2006-01-02 15:04:05"),
			r.Report.Outcome(),
			fmt.Sprintf("%d", r.Report.Stats.Characters),
			r.Path,
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RUN", "CHECKED", "OUTCOME", "CHARS", "PATH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := p.plain.Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return p.heading.Padding(0, 1)
			case col == 2 && p.color && row >= 0 && row < len(rows):
				s := outcomeStatus[rows[row][2]]
				return p.styleFor(s).Padding(0, 1)
			}
			return cell
		})

	_, err := fmt.Fprintf(w, "%s\nShowing %d of %d runs\n", t.Render(), len(runs), total)
	return err
}

func (p palette) styleFor(s models.Status) lipgloss.Style {
	switch s {
	case models.StatusPass:
		return p.pass
	case models.StatusFail:
		return p.fail
	default:
		return p.warn
	}
}
