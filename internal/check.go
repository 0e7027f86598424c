package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/papercheck/internal/checker"
	"github.com/starford/papercheck/internal/checkservice"
	"github.com/starford/papercheck/internal/checksum"
	"github.com/starford/papercheck/internal/history"
	"github.com/starford/papercheck/internal/models"
	"github.com/starford/papercheck/internal/report"
	"github.com/starford/papercheck/internal/watch"
)

// DefaultDocumentPath is checked when no path is given.
const DefaultDocumentPath = "build/paper.docx"

// ErrFileNotFound is returned by Watch when the document does not exist.
var ErrFileNotFound = errors.New("file not found")

// Check checks the document at path, writes the report and returns the
// verdict. A missing path prints "Error: File not found: <path>" and
// returns false before any check runs.
func Check(ctx context.Context, path string, opts ...Option) (bool, error) {
	app := newApplication(opts)
	if err := validFormat(app.format); err != nil {
		return false, err
	}
	if !app.exists(path) {
		return false, nil
	}

	rep, err := app.check(ctx, path)
	if err != nil {
		return false, err
	}
	if err := report.Write(app.stdout, app.format, rep, app.reportOptions()); err != nil {
		return false, err
	}
	return rep.Verdict, nil
}

// Watch checks the document at path, then re-checks and re-prints the
// report every time its bytes change, until ctx is cancelled.
func Watch(ctx context.Context, path string, opts ...Option) error {
	app := newApplication(opts)
	if err := validFormat(app.format); err != nil {
		return err
	}
	if !app.exists(path) {
		return ErrFileNotFound
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	logger := app.logger(app.stderr)
	ropts := app.reportOptions()
	var last string
	first := true

	recheck := func() {
		sum, err := checksum.File(abs)
		if err != nil {
			logger.Warn("checksum failed", slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		if sum == last {
			logger.Debug("content unchanged", slog.String("path", path))
			return
		}
		last = sum

		rep, err := app.check(ctx, path)
		if err != nil {
			logger.Error("check failed", slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		if !first {
			fmt.Fprintln(app.stdout)
		}
		first = false
		if err := report.Write(app.stdout, app.format, rep, ropts); err != nil {
			logger.Error("write report failed", slog.String("error", err.Error()))
		}
		logger.Info("document checked", slog.String("path", path), slog.String("outcome", rep.Outcome()))
	}

	recheck()
	return watch.Watch(ctx, watch.Options{
		Root:     abs,
		Debounce: app.config.Watch.Debounce,
		Logger:   logger,
	}, func(string) { recheck() })
}

// History prints the recorded runs, newest first.
func History(_ context.Context, path string, limit int, opts ...Option) error {
	app := newApplication(opts)
	if err := validFormat(app.format); err != nil {
		return err
	}

	db, err := history.Open(app.config.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	runs, total, err := db.List(limit, 0, path)
	if err != nil {
		return err
	}
	if app.format == report.FormatJSON {
		return writeJSON(app.stdout, map[string]any{"runs": runs, "total": total})
	}
	return report.Runs(app.stdout, runs, total, app.reportOptions())
}

// exists prints the missing-file error when path does not exist. In JSON
// mode the error is written as a report so stdout stays machine-readable.
func (a *application) exists(path string) bool {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if a.format == report.FormatJSON {
			if err := report.JSON(a.stdout, models.Report{Path: path, Error: ErrFileNotFound.Error()}); err != nil {
				a.logger(a.stderr).Error("write report", slog.String("error", err.Error()))
			}
			return false
		}
		fmt.Fprintf(a.stdout, "Error: File not found: %s\n", path)
		return false
	}
	return true
}

// check evaluates path, recording the run when requested.
func (a *application) check(ctx context.Context, path string) (models.Report, error) {
	c := checker.New(a.config.Rules)
	if !a.record {
		return c.CheckFile(path), nil
	}

	db, err := history.Open(a.config.History.Path)
	if err != nil {
		return models.Report{}, fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	svc := checkservice.NewService(nil, c, db,
		checkservice.WithRetention(a.config.History.Retention),
		checkservice.WithLogger(a.logger(a.stderr)),
	)
	run, err := svc.CheckFile(ctx, path)
	if err != nil {
		return models.Report{}, err
	}
	return run.Report, nil
}

func validFormat(format string) error {
	switch format {
	case report.FormatText, report.FormatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, report.FormatText, report.FormatJSON)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
