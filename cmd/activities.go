package main

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/desertthunder/stride/internal/formatter"
	"github.com/urfave/cli/v3"
)

var copyToClipboard = clipboard.WriteAll

// Runs lists recent runs as a table or JSON.
func (r *Runner) Runs(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	runs, err := engine.Runs(ctx, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Recent runs (%d)", len(runs)))
	if len(runs) == 0 {
		return r.writePlain("No recent runs.\n")
	}
	for _, run := range runs {
		r.writePlain("%-12d %s  %6.2f km  %s\n", run.ID, run.PrettyDate, run.Kilometers(), run.Name)
	}
	return nil
}

// Summary prints the summary for one run, optionally saving it, copying it, and exporting its splits.
func (r *Runner) Summary(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine(0)
	if err != nil {
		return err
	}

	result, err := engine.Summary(ctx, cmd.String("id"), nil)
	if err != nil {
		return err
	}

	if err := r.writePlain("%s\n", result.Text); err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteTextExport(result.Text, path)
		if err != nil {
			return err
		}
		r.logger.Info("summary written", "path", written)
	}

	if cmd.Bool("csv") {
		written, err := formatter.WriteCSVExport(result.Detail, "")
		if err != nil {
			return err
		}
		r.logger.Info("splits exported", "path", written)
	}

	if cmd.Bool("copy") {
		if err := copyToClipboard(result.Text); err != nil {
			return fmt.Errorf("failed to copy summary: %w", err)
		}
		r.logger.Info("summary copied to clipboard")
	}

	return nil
}
