package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API",
	Long: `Serve sessions, answers, analysis and reports over HTTP under /v1.
When server.jwt_secret is configured every /v1 route requires a bearer
token; mint one with 'usermanual token'.

Examples:
  usermanual serve
  usermanual serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	if cfg.Server.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "warning: server.jwt_secret is not set, the API is unauthenticated")
	}

	srv := server.New(svc, server.Options{
		Addr:      addr,
		JWTSecret: cfg.Server.JWTSecret,
		Language:  cfg.Language,
	}, logger)

	fmt.Fprintf(os.Stderr, "usermanual API listening on %s\n", addr)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
