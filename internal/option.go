package internal

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/starford/papercheck/internal/report"
)

// Color modes for the text report.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	stdout  io.Writer
	stderr  io.Writer
	format  string
	color   string
	record  bool
	version string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where reports are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}

// WithErrOutput sets where logs of the CLI commands are written. Defaults to os.Stderr.
func WithErrOutput(w io.Writer) Option {
	return func(a *application) {
		a.stderr = w
	}
}

// WithFormat selects the report format (text or json).
func WithFormat(format string) Option {
	return func(a *application) {
		a.format = format
	}
}

// WithColor selects the color mode (auto, always or never).
func WithColor(mode string) Option {
	return func(a *application) {
		a.color = mode
	}
}

// WithRecord makes the check command append its run to the history database.
func WithRecord(record bool) Option {
	return func(a *application) {
		a.record = record
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

func newApplication(opts []Option) *application {
	app := &application{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		format:  report.FormatText,
		color:   ColorAuto,
		version: "dev",
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		app.config = NewDefaultConfig()
	}
	return app
}

// logger returns a JSON logger writing to w at the configured level.
func (a *application) logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

// reportOptions resolves the color mode against the report writer.
func (a *application) reportOptions() report.Options {
	switch a.color {
	case ColorAlways:
		return report.Options{Color: true}
	case ColorNever:
		return report.Options{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return report.Options{}
	}
	f, ok := a.stdout.(*os.File)
	return report.Options{Color: ok && term.IsTerminal(int(f.Fd()))}
}
