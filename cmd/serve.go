package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/stride/internal/server"
	"github.com/desertthunder/stride/internal/shared"
	"github.com/desertthunder/stride/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web front-end until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.engine(0)
	if err != nil {
		return err
	}

	serverConfig := r.config.Server
	if cmd.IsSet("host") {
		serverConfig.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		serverConfig.Port = int(cmd.Int("port"))
	}

	csrf, err := web.NewCSRF([]byte(serverConfig.CSRFHashKey), []byte(serverConfig.CSRFBlockKey), false)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	if serverConfig.CSRFHashKey == "" {
		r.logger.Warn("server.csrf_hash_key is empty; using a random key for this process")
	}

	router, err := web.NewRouter(engine, csrf, shared.WithLogger(r.logger, "component", "http"))
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	ln, err := net.Listen("tcp", serverConfig.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", serverConfig.Addr(), err)
	}

	pageURL := "http://" + net.JoinHostPort(serverConfig.Host, strconv.Itoa(ln.Addr().(*net.TCPAddr).Port))
	r.writePlain("→ Serving on %s (Ctrl+C to stop)\n", pageURL)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(pageURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(serverConfig.Addr(), router, r.logger).Serve(ctx, ln)
}
