package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/stride/internal/services"
	"github.com/desertthunder/stride/internal/shared"
	"github.com/desertthunder/stride/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	tokens     *services.TokenExchanger
	exchanger  services.Exchanger
	client     services.ActivityClient
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Exchanger and Client replace the Strava implementations; both are built from Config when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Exchanger  services.Exchanger
	Client     services.ActivityClient
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a Config the runner is wired later by [Runner.Configure].
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		configPath: opts.ConfigPath,
		exchanger:  opts.Exchanger,
		client:     opts.Client,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	if opts.Config != nil {
		r.wire(opts.Config)
	}

	return r
}

// Configure resolves config.toml, .env and the environment before any command runs.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" && (r.configPath == "" || cmd.IsSet("config")) {
		r.configPath = path
	}

	if r.config != nil {
		return ctx, nil
	}

	config, err := shared.ResolveConfig(r.configPath)
	if err != nil {
		return ctx, err
	}

	r.wire(config)
	return ctx, nil
}

// wire builds the Strava services from config, keeping any injected implementations.
func (r *Runner) wire(config *shared.Config) {
	r.config = config
	shared.SetLogLevel(r.logger, config.Log.Level)

	if r.httpClient == nil {
		r.httpClient = services.NewHTTPClient(config.Strava.Timeout())
	}

	r.tokens = services.NewTokenExchanger(config.Strava.AuthURL, config.Strava.TokenURL, r.httpClient)
	if r.exchanger == nil {
		r.exchanger = r.tokens
	}

	if r.client == nil {
		r.client = services.NewStravaClient(services.StravaOpts{
			BaseURL:            config.Strava.BaseURL,
			HTTPClient:         r.httpClient,
			PerPage:            config.Strava.PerPage,
			RateLimit:          config.Strava.RateLimit,
			SkipMalformedDates: config.Strava.SkipMalformedDates,
			Logger:             shared.WithLogger(r.logger, "component", "strava"),
		})
	}

	r.logger.Debug("configuration loaded",
		"path", r.configPath,
		"client_id", config.Credentials.Strava.ClientID,
		"refresh_token", shared.MaskSecret(config.Credentials.Strava.RefreshToken),
	)
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// engine returns a SummaryEngine for the configured credentials; limit <= 0 uses the configured limit.
func (r *Runner) engine(limit int) (tasks.Engine, error) {
	if r.config == nil {
		return nil, shared.ErrMissingConfig
	}
	if err := r.config.Validate(true); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = r.config.Strava.Limit
	}
	return tasks.NewSummaryEngine(r.exchanger, r.client, r.config.Credentials.Strava.Credentials(), limit), nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, runsCommand, summaryCommand, authCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
