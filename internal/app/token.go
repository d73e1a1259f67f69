package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/server"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the REST API",
	Long: `Sign a JWT with server.jwt_secret for use as
'Authorization: Bearer <token>' against 'usermanual serve'.

Examples:
  usermanual token
  usermanual token --subject ci --ttl 1h`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default from server.token_ttl; 0 for no expiry)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	if cfg.Server.JWTSecret == "" {
		return errors.New("server.jwt_secret is not configured")
	}
	ttl := cfg.Server.TokenTTL
	if cmd.Flags().Changed("ttl") {
		ttl = tokenTTL
	}
	token, err := server.IssueToken(cfg.Server.JWTSecret, tokenSubject, ttl)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	fmt.Println(token)
	return nil
}
