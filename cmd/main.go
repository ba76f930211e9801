package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/stride/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Debug("application error", "error", err)
		fmt.Fprintln(os.Stderr, shared.UserMessage(err))
		os.Exit(1)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "stride",
		Usage:   "Summarize recent Strava runs for pasting into an analysis tool",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}
