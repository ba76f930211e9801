package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/stride/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when it does not exist yet.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if _, err := os.Stat(path); err == nil {
		r.logger.Info("config file already exists", "path", path)
		return r.writePlain("Config file already exists at %s\n", path)
	}

	r.logger.Info("creating config file from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	r.writePlain("✓ Created %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Create an API application at https://www.strava.com/settings/api\n")
	r.writePlain("2. Set credentials.strava.client_id and client_secret (or %s / %s)\n", shared.EnvClientID, shared.EnvClientSecret)
	r.writePlain("3. Run 'stride auth login' to store a refresh token\n")
	return nil
}
