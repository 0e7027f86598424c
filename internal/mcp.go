package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/papercheck/internal/checker"
	"github.com/starford/papercheck/internal/checkservice"
	"github.com/starford/papercheck/internal/history"
	"github.com/starford/papercheck/internal/mcpserver"
	"github.com/starford/papercheck/internal/storage"
)

// ServeMCP serves the MCP tools over stdin/stdout. Logs go to the error
// output so the protocol stream stays clean.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	cfg := app.config

	logger := app.logger(app.stderr)
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return fmt.Errorf("create library dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Library.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}
	defer db.Close()

	svc := checkservice.NewService(store, checker.New(cfg.Rules), db,
		checkservice.WithRetention(cfg.History.Retention),
		checkservice.WithLogger(logger),
	)
	if _, err := svc.Sync(ctx); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	logger.Info("MCP server starting", slog.String("library_path", cfg.Library.Path))
	return mcpserver.New(svc, app.version).ServeStdio()
}
