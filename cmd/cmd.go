// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand starts the web front-end.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the run summary page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (defaults to server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the page in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// runsCommand lists recent runs.
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recent runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to show (defaults to strava.limit)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Runs,
	}
}

// summaryCommand prints the summary for one run.
func summaryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Print the training summary for a run",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Strava activity ID",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Also write the lap/split table to {id}_splits.csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the summary to a file",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the summary to the clipboard",
			},
		},
		Action: r.Summary,
	}
}

// authCommand handles Strava authorization.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Strava authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize stride with Strava and store the refresh token in the config file",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: authTimeout,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check that the configured refresh token is accepted",
				Action: r.AuthStatus,
			},
		},
	}
}

// setupCommand writes a config file from the embedded template.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml from the built-in template",
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for browsing runs interactively.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse runs and copy summaries in an interactive TUI",
		Action:  r.TUI,
	}
}
