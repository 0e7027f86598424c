package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/papercheck/internal"
	"github.com/starford/papercheck/internal/report"
	pkgconfig "github.com/starford/papercheck/pkg/config"
)

var version = "dev"

const defaultConfigPath = "config/config.yaml"

// loadConfig reads the config file. The default file is optional; a file
// named explicitly with --config or APP_CONFIG_FILE must exist.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	configPath := cmd.String("config")
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		return cfg, nil
	}
	if _, err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func outputOptions(cmd *cli.Command, cfg *internal.Config) []internal.Option {
	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithFormat(cmd.String("format")),
		internal.WithColor(cmd.String("color")),
		internal.WithVersion(version),
	}
}

func documentPath(cmd *cli.Command) string {
	if p := cmd.Args().First(); p != "" {
		return p
	}
	return internal.DefaultDocumentPath
}

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := append(outputOptions(cmd, cfg), internal.WithRecord(cmd.Bool("record")))

	ok, err := internal.Check(ctx, documentPath(cmd), opts...)
	if err != nil {
		return err
	}
	if !ok {
		return cli.Exit("", 1)
	}
	return nil
}

func watchCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := append(outputOptions(cmd, cfg), internal.WithRecord(cmd.Bool("record")))

	err = internal.Watch(ctx, documentPath(cmd), opts...)
	if errors.Is(err, internal.ErrFileNotFound) {
		return cli.Exit("", 1)
	}
	return err
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Serve(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func historyCmd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.History(ctx, cmd.String("path"), int(cmd.Int("limit")), outputOptions(cmd, cfg)...)
}

func main() {
	cmd := &cli.Command{
		Name:      "papercheck",
		Usage:     "Check a .docx paper against conference format rules",
		Version:   version,
		ArgsUsage: "[PATH]",
		Action:    check,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Report format: text or json",
				Value: report.FormatText,
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Color mode: auto, always or never",
				Value: internal.ColorAuto,
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "Append each run to the history database",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "watch",
				Usage:     "Re-check the document every time it is saved",
				ArgsUsage: "[PATH]",
				Action:    watchCmd,
			},
			{
				Name:   "serve",
				Usage:  "Serve the REST API over the document library",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:  "history",
				Usage: "List recorded check runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Only show runs of this document",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs",
						Value: 20,
					},
				},
				Action: historyCmd,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
