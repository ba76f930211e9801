package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/stride/internal/models"
	"github.com/desertthunder/stride/internal/services"
	"github.com/desertthunder/stride/internal/shared"
	tu "github.com/desertthunder/stride/internal/testing"
)

func testConfig() *shared.Config {
	config := shared.DefaultConfig()
	config.Credentials.Strava.ClientID = "12345"
	config.Credentials.Strava.ClientSecret = "client_secret_value"
	config.Credentials.Strava.RefreshToken = "refresh_token_value"
	return config
}

func testDetail(sport string) *models.ActivityDetail {
	return &models.ActivityDetail{
		ID:          77,
		Name:        "Easy Sunday",
		SportType:   sport,
		Distance:    tu.Ptr(2000.0),
		MovingTime:  tu.Ptr(660),
		WorkoutType: tu.Ptr(0),
		SplitsMetric: []models.Split{
			{Split: tu.Ptr(1), Distance: tu.Ptr(1000.0), MovingTime: tu.Ptr(330)},
		},
	}
}

// run executes the CLI with args against a runner wired to mocks.
func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := newApp(runner)
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	return app.Run(context.Background(), append([]string{"stride"}, args...))
}

func newTestRunner(config *shared.Config, exchanger *tu.MockExchanger, client *tu.MockActivityClient) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:    config,
		Exchanger: exchanger,
		Client:    client,
		Logger:    shared.NewLogger(&bytes.Buffer{}),
		Output:    output,
	})
	return runner, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := testConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			exchanger := &tu.MockExchanger{}
			client := &tu.MockActivityClient{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Exchanger:  exchanger,
				Client:     client,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.exchanger != exchanger {
				t.Error("expected injected exchanger to be kept")
			}
			if runner.client != client {
				t.Error("expected injected client to be kept")
			}
			if runner.tokens == nil {
				t.Error("expected token exchanger for auth login")
			}
		})

		t.Run("with config builds Strava services", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: testConfig()})

			if _, ok := runner.exchanger.(*services.TokenExchanger); !ok {
				t.Errorf("expected TokenExchanger, got %T", runner.exchanger)
			}
			if _, ok := runner.client.(*services.StravaClient); !ok {
				t.Errorf("expected StravaClient, got %T", runner.client)
			}
			if runner.httpClient == nil || runner.httpClient.Timeout != runner.config.Strava.Timeout() {
				t.Error("expected HTTP client with configured timeout")
			}
		})

		t.Run("without config defers wiring", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config != nil || runner.exchanger != nil {
				t.Error("expected runner to wait for Configure")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})
	})

	t.Run("Configure", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv(shared.EnvClientID, "")
		t.Setenv(shared.EnvClientSecret, "from_env")
		t.Setenv(shared.EnvRefreshToken, "")
		t.Setenv(shared.EnvPort, "")

		path := filepath.Join(dir, "custom.toml")
		content := "[credentials.strava]\nclient_id = \"999\"\nclient_secret = \"from_file\"\n\n[strava]\nlimit = 3\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
		if err := run(t, runner, "--config", path, "setup"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if runner.configPath != path {
			t.Errorf("expected config path %s, got %s", path, runner.configPath)
		}
		if runner.config.Credentials.Strava.ClientID != "999" {
			t.Errorf("expected client id from file, got %q", runner.config.Credentials.Strava.ClientID)
		}
		if runner.config.Credentials.Strava.ClientSecret != "from_env" {
			t.Errorf("expected env override, got %q", runner.config.Credentials.Strava.ClientSecret)
		}
		if runner.config.Strava.Limit != 3 {
			t.Errorf("expected limit 3, got %d", runner.config.Strava.Limit)
		}
		if runner.config.Strava.PerPage != 10 {
			t.Errorf("expected default per_page, got %d", runner.config.Strava.PerPage)
		}
	})

	t.Run("Configure Invalid File", func(t *testing.T) {
		t.Chdir(t.TempDir())
		path := filepath.Join(t.TempDir(), "bad.toml")
		os.WriteFile(path, []byte("not = [valid"), 0600)

		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
		if err := run(t, runner, "--config", path, "setup"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestRunsCommand(t *testing.T) {
	runs := []models.ActivitySummaryRef{
		{ID: 11, Name: "Morning Run", Distance: 5012.3, PrettyDate: "02 Mar 2024"},
		{ID: 12, Name: "Tempo", Distance: 8000, PrettyDate: "28 Feb 2024"},
	}

	t.Run("Plain", func(t *testing.T) {
		exchanger := &tu.MockExchanger{Token: "tok"}
		runner, output := newTestRunner(testConfig(), exchanger, &tu.MockActivityClient{Runs: runs})

		if err := run(t, runner, "runs"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "Recent runs (2)") {
			t.Errorf("expected header, got:\n%s", out)
		}
		if !strings.Contains(out, "02 Mar 2024    5.01 km  Morning Run") {
			t.Errorf("expected formatted run, got:\n%s", out)
		}
		if exchanger.Calls != 1 {
			t.Errorf("expected one token exchange, got %d", exchanger.Calls)
		}
	})

	t.Run("JSON With Limit", func(t *testing.T) {
		runner, output := newTestRunner(testConfig(), &tu.MockExchanger{Token: "tok"}, &tu.MockActivityClient{Runs: runs})

		if err := run(t, runner, "runs", "--json", "--limit", "1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := strings.TrimSpace(output.String())
		if !strings.HasPrefix(out, `[{"id":11,`) || strings.Contains(out, `"id":12`) {
			t.Errorf("expected only the first run as JSON, got %s", out)
		}
		if !strings.Contains(out, `"date_pretty":"02 Mar 2024"`) {
			t.Errorf("expected pretty date field, got %s", out)
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		client := &tu.MockActivityClient{Runs: runs}
		runner, _ := newTestRunner(shared.DefaultConfig(), &tu.MockExchanger{}, client)

		if err := run(t, runner, "runs"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if client.ListCalls != 0 {
			t.Error("expected no listing without credentials")
		}
	})

	t.Run("Upstream Failure", func(t *testing.T) {
		client := &tu.MockActivityClient{ListErr: &shared.UpstreamError{Op: "list activities", Status: 503}}
		runner, _ := newTestRunner(testConfig(), &tu.MockExchanger{Token: "tok"}, client)

		err := run(t, runner, "runs")
		if !strings.Contains(shared.UserMessage(err), "Try again shortly") {
			t.Errorf("expected transient message, got %q", shared.UserMessage(err))
		}
	})
}

func TestSummaryCommand(t *testing.T) {
	t.Run("Prints Summary", func(t *testing.T) {
		client := &tu.MockActivityClient{Detail: testDetail(models.SportRun)}
		runner, output := newTestRunner(testConfig(), &tu.MockExchanger{Token: "tok"}, client)

		if err := run(t, runner, "summary", "--id", "77"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if client.LastID != "77" {
			t.Errorf("expected id 77, got %q", client.LastID)
		}
		out := output.String()
		if !strings.HasPrefix(out, "I've just been on another run") {
			t.Errorf("expected summary, got:\n%s", out)
		}
		if !strings.Contains(out, "Split 1: 1000m in 330s") {
			t.Errorf("expected split line, got:\n%s", out)
		}
	})

	t.Run("Output CSV And Copy", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		var copied string
		original := copyToClipboard
		copyToClipboard = func(s string) error {
			copied = s
			return nil
		}
		defer func() { copyToClipboard = original }()

		runner, _ := newTestRunner(testConfig(), &tu.MockExchanger{Token: "tok"}, &tu.MockActivityClient{Detail: testDetail(models.SportRun)})

		if err := run(t, runner, "summary", "--id", "77", "--output", "sunday.txt", "--csv", "--copy"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "sunday.txt"))
		tu.AssertFileExists(t, filepath.Join(dir, "77_splits.csv"))
		if !strings.HasPrefix(copied, "I've just been on another run") {
			t.Errorf("expected summary on clipboard, got %q", copied)
		}
	})

	t.Run("Not A Run", func(t *testing.T) {
		runner, output := newTestRunner(testConfig(), &tu.MockExchanger{Token: "tok"}, &tu.MockActivityClient{Detail: testDetail("Ride")})

		err := run(t, runner, "summary", "--id", "77")
		if shared.UserMessage(err) != shared.MsgNotARun {
			t.Errorf("expected not-a-run message, got %v", err)
		}
		if output.Len() != 0 {
			t.Errorf("expected no output, got %q", output.String())
		}
	})

	t.Run("Missing ID", func(t *testing.T) {
		runner, _ := newTestRunner(testConfig(), &tu.MockExchanger{Token: "tok"}, &tu.MockActivityClient{})

		if err := run(t, runner, "summary"); err == nil {
			t.Error("expected error for missing --id")
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Status", func(t *testing.T) {
		exchanger := &tu.MockExchanger{Token: "tok"}
		runner, output := newTestRunner(testConfig(), exchanger, &tu.MockActivityClient{})

		if err := run(t, runner, "auth", "status"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "Strava accepted the refresh token") {
			t.Errorf("expected success message, got:\n%s", out)
		}
		if strings.Contains(out, "refresh_token_value") {
			t.Error("expected refresh token to be masked")
		}
		if exchanger.Calls != 1 {
			t.Errorf("expected one exchange, got %d", exchanger.Calls)
		}
	})

	t.Run("Status Rejected", func(t *testing.T) {
		exchanger := &tu.MockExchanger{Err: &shared.AuthError{Status: 400, Body: "invalid refresh token"}}
		runner, _ := newTestRunner(testConfig(), exchanger, &tu.MockActivityClient{})

		err := run(t, runner, "auth", "status")
		var authErr *shared.AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("expected AuthError, got %v", err)
		}
	})

	t.Run("Login Requires Client Credentials", func(t *testing.T) {
		runner, _ := newTestRunner(shared.DefaultConfig(), &tu.MockExchanger{}, &tu.MockActivityClient{})

		if err := run(t, runner, "auth", "login", "--no-browser"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Save Refresh Token", func(t *testing.T) {
		t.Setenv(shared.EnvClientSecret, "")
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := shared.CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config: %v", err)
		}

		runner := NewRunner(RunnerOpts{Config: testConfig(), ConfigPath: path, Logger: shared.NewLogger(&bytes.Buffer{})})
		if err := runner.saveRefreshToken("new_refresh"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		saved, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if saved.Credentials.Strava.RefreshToken != "new_refresh" {
			t.Errorf("expected saved refresh token, got %q", saved.Credentials.Strava.RefreshToken)
		}
		if saved.Credentials.Strava.ClientSecret == "client_secret_value" {
			t.Error("expected in-memory secret not to be written to the file")
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("Creates Config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner, output := newTestRunner(testConfig(), &tu.MockExchanger{}, &tu.MockActivityClient{})
		runner.configPath = path

		if err := run(t, runner, "setup"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "stride auth login") {
			t.Errorf("expected next steps, got:\n%s", output.String())
		}
	})

	t.Run("Existing Config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(path, []byte("# mine\n"), 0600)

		runner, output := newTestRunner(testConfig(), &tu.MockExchanger{}, &tu.MockActivityClient{})
		runner.configPath = path

		if err := run(t, runner, "setup"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "already exists") {
			t.Errorf("expected existing file notice, got:\n%s", output.String())
		}
		if content := tu.MustReadFile(t, path); content != "# mine\n" {
			t.Error("expected existing config to be left untouched")
		}
	})
}
