package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/stride/internal/server"
	"github.com/desertthunder/stride/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// AuthLogin runs the authorization code flow and stores the resulting refresh token in the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(false); err != nil {
		return err
	}

	redirectURI := r.config.Credentials.Strava.RedirectURI
	callback, err := url.Parse(redirectURI)
	if err != nil || callback.Host == "" {
		return fmt.Errorf("%w: redirect_uri %q is not an absolute URL", shared.ErrInvalidConfig, redirectURI)
	}

	state := shared.GenerateID()
	oauthConfig := r.tokens.OAuthConfig(r.config.Credentials.Strava.Credentials(), redirectURI)
	authURL := oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "force"))

	oauthHandler := server.NewOAuthHandler(oauthConfig, state, r.httpClient)
	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logger(r.logger))
	router.Handler(oauthHandler)

	ln, err := net.Listen("tcp", callback.Host)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", callback.Host, err)
	}

	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.New(callback.Host, router, r.logger).Serve(serveCtx, ln)
	}()

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	} else {
		r.writePlain("→ Opening browser for Strava authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = authTimeout
	}
	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		if err == nil {
			err = errors.New("server stopped before authorization completed")
		}
		return err
	case <-timer.C:
		return fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	stop()
	if err := <-serverErrors; err != nil {
		r.logger.Warn("error shutting down callback server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil || result.Token.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token received", shared.ErrAuthFailed)
	}
	if result.Scope != "" && !strings.Contains(result.Scope, "activity:read") {
		r.logger.Warn("activity read scope was not granted; runs will not be visible", "scope", result.Scope)
	}

	if err := r.saveRefreshToken(result.Token.RefreshToken); err != nil {
		return err
	}

	r.config.Credentials.Strava.RefreshToken = result.Token.RefreshToken
	r.logger.Info("refresh token stored", "path", r.configPath, "refresh_token", shared.MaskSecret(result.Token.RefreshToken))
	return r.writePlain("✓ Strava authorization successful\nRefresh token saved to %s\n", r.configPath)
}

// saveRefreshToken updates only the refresh token in the config file, so values from the
// environment are not written to disk.
func (r *Runner) saveRefreshToken(token string) error {
	fileConfig, err := shared.LoadConfig(r.configPath)
	if errors.Is(err, os.ErrNotExist) {
		fileConfig, err = shared.DefaultConfig(), nil
	}
	if err != nil {
		return err
	}

	fileConfig.Credentials.Strava.RefreshToken = token
	return shared.SaveConfig(r.configPath, fileConfig)
}

// AuthStatus performs one token exchange to check the configured credentials.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(true); err != nil {
		return err
	}

	creds := r.config.Credentials.Strava.Credentials()
	r.logger.Info("checking auth status", "client_id", creds.ClientID)

	if _, err := r.exchanger.Exchange(ctx, creds); err != nil {
		return err
	}

	r.writePlain("✓ Strava accepted the refresh token\n")
	r.writePlain("Client ID: %s\n", creds.ClientID)
	return r.writePlain("Refresh token: %s\n", shared.MaskSecret(creds.RefreshToken))
}
